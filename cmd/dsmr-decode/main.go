// Command dsmr-decode decodes a DSMR P1 telegram, optionally stripping and
// decrypting a DLMS wrapper first, and prints the parsed fields as JSON.
// It is a caller exercising the library, not part of the library: it owns
// its own buffers, file I/O, and key parsing.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybroslabs/dsmr-p1-go/dsmr"
	"github.com/cybroslabs/dsmr-p1-go/field"
	"github.com/cybroslabs/dsmr-p1-go/frame"
	"github.com/cybroslabs/dsmr-p1-go/gcmcipher"
	"github.com/cybroslabs/dsmr-p1-go/telegram"
)

var (
	keyHex       string
	checkCRC     bool
	unknownError bool
	logger       *zap.SugaredLogger

	rootCmd = &cobra.Command{
		Use:   "dsmr-decode [hex]",
		Short: "Decode DSMR P1 telegrams",
		Long:  "dsmr-decode parses DSMR P1 telegrams, decrypting a DLMS wrapper first when --key is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInteractive(cmd.Context())
			}
			return decodeAndPrint(args[0])
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&keyHex, "key", "", "hex-encoded 16-byte AES key (32 hex chars), required if input is DLMS-encrypted")
	rootCmd.PersistentFlags().BoolVar(&checkCRC, "crc", true, "verify the telegram's trailing CRC-16")
	rootCmd.PersistentFlags().BoolVar(&unknownError, "unknown-error", false, "treat an unrecognised OBIS field as an error instead of skipping it")
}

func main() {
	l, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer l.Sync() //nolint:errcheck
	logger = l.Sugar()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatalw("decode failed", "error", err)
	}
}

func runInteractive(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	logger.Info("dsmr-decode interactive mode. Paste a hex telegram and press Enter (Ctrl+D to exit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := decodeAndPrint(line); err != nil {
			logger.Errorw("failed to decode telegram", "error", err)
		}
	}
	return scanner.Err()
}

func decodeAndPrint(hexInput string) error {
	raw, err := hex.DecodeString(strings.TrimSpace(hexInput))
	if err != nil {
		return fmt.Errorf("input is not valid hex: %w", err)
	}

	plaintext := raw
	if len(raw) > 0 && raw[0] == 0xDB {
		plaintext, err = decryptDLMS(raw)
		if err != nil {
			return fmt.Errorf("decrypt DLMS packet: %w", err)
		}
	}

	t := dsmr.NewTelegram()
	opts := telegram.Options{CheckCRC: checkCRC, UnknownFieldIsError: unknownError}
	if err := telegram.Parse(plaintext, t, opts); err != nil {
		return fmt.Errorf("parse telegram: %w", err)
	}
	if err := t.Validate(); err != nil {
		logger.Warnw("telegram missing mandatory fields", "error", err)
	}

	out := make(map[string]interface{}, len(t.Fields()))
	field.Each(t, func(d field.Descriptor) {
		if !d.Present() {
			return
		}
		out[d.ID().String()] = fieldValue(d)
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// fieldValue extracts a JSON-friendly value from a field descriptor: any
// field with a Value() float64 method yields that, and the dsmr string,
// integer and raw fields yield their Value. Other kinds yield nil.
func fieldValue(d field.Descriptor) interface{} {
	switch v := d.(type) {
	case interface{ Value() float64 }:
		return v.Value()
	case *dsmr.StringField:
		return v.Value
	case *dsmr.IntegerField:
		return v.Value
	case *dsmr.RawField:
		return v.Value
	default:
		return nil
	}
}

func decryptDLMS(packet []byte) ([]byte, error) {
	if keyHex == "" {
		return nil, fmt.Errorf("input looks DLMS-encrypted (leading 0xDB); --key is required")
	}
	key, err := gcmcipher.ParseKeyHex(keyHex)
	if err != nil {
		return nil, err
	}
	cipher, err := gcmcipher.NewDecryptor(key)
	if err != nil {
		return nil, err
	}
	p, err := frame.ParsePacket(packet)
	if err != nil {
		return nil, err
	}
	return frame.DecryptPacket(make([]byte, len(p.Ciphertext())), cipher, packet)
}
