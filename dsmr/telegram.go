package dsmr

import (
	"go.uber.org/multierr"

	"github.com/cybroslabs/dsmr-p1-go/field"
	"github.com/cybroslabs/dsmr-p1-go/obis"
)

func o(a, b, c, d, e, f byte) obis.ID { return obis.ID{A: a, B: b, C: c, D: d, E: e, F: f} }

// Telegram is the DSMR 4/5 + Luxembourg Smarty field library: a closed
// record of the measurements a compliant P1 meter may emit. Construct it
// with NewTelegram and hand it to telegram.Parse.
type Telegram struct {
	Identification *StringField // all-255 id, the free-form identification line

	P1Version       *StringField
	Timestamp       *StringField
	EquipmentID     *StringField
	TariffIndicator *StringField
	MessageShort    *StringField
	MessageLong     *StringField

	EnergyDeliveredTariff1 *FixedDecimalField
	EnergyDeliveredTariff2 *FixedDecimalField
	EnergyReturnedTariff1  *FixedDecimalField
	EnergyReturnedTariff2  *FixedDecimalField
	EnergyDeliveredLux     *FixedDecimalField
	PowerDelivered         *FixedDecimalField
	PowerReturned          *FixedDecimalField
	ElectricityThreshold   *FixedDecimalField

	ElectricitySwitchPosition *IntegerField
	NumberOfPowerFailures     *IntegerField
	NumberOfLongPowerFailures *IntegerField
	ElectricityFailureLog     *RawField

	VoltageSagsL1   *IntegerField
	VoltageSagsL2   *IntegerField
	VoltageSagsL3   *IntegerField
	VoltageSwellsL1 *IntegerField
	VoltageSwellsL2 *IntegerField
	VoltageSwellsL3 *IntegerField

	InstantaneousVoltageL1 *FixedDecimalField
	InstantaneousVoltageL2 *FixedDecimalField
	InstantaneousVoltageL3 *FixedDecimalField
	InstantaneousCurrentL1 *FixedDecimalField
	InstantaneousCurrentL2 *FixedDecimalField
	InstantaneousCurrentL3 *FixedDecimalField

	InstantaneousActivePowerL1Plus  *FixedDecimalField
	InstantaneousActivePowerL2Plus  *FixedDecimalField
	InstantaneousActivePowerL3Plus  *FixedDecimalField
	InstantaneousActivePowerL1Minus *FixedDecimalField
	InstantaneousActivePowerL2Minus *FixedDecimalField
	InstantaneousActivePowerL3Minus *FixedDecimalField

	GasDeviceType    *IntegerField
	GasEquipmentID   *StringField
	GasValvePosition *IntegerField
	GasDelivered     *TimestampedFixedDecimalField

	ThermalDeviceType    *IntegerField
	ThermalEquipmentID   *StringField
	ThermalValvePosition *IntegerField
	ThermalDelivered     *TimestampedFixedDecimalField

	WaterDeviceType    *IntegerField
	WaterEquipmentID   *StringField
	WaterValvePosition *IntegerField
	WaterDelivered     *TimestampedFixedDecimalField

	ActiveEnergyImportMaximumDemandRunningMonth *TimestampedFixedDecimalField
	ActiveEnergyImportMaximumDemandLast13Months *AveragedFixedDecimalField
	MaximumDemandCurrentAveragingPeriod         *AveragedFixedDecimalField

	fields []field.Descriptor
}

// NewTelegram constructs an empty, fully-declared DSMR telegram record.
func NewTelegram() *Telegram {
	t := &Telegram{
		Identification: NewStringField(obis.All255, 0, 64),

		P1Version:       NewStringField(o(1, 3, 0, 2, 8, 255), 2, 2),
		Timestamp:       NewStringField(o(0, 0, 1, 0, 0, 255), 13, 13),
		EquipmentID:     NewStringField(o(0, 0, 96, 1, 1, 255), 0, 96),
		TariffIndicator: NewStringField(o(0, 0, 96, 14, 0, 255), 4, 4),
		MessageShort:    NewStringField(o(0, 0, 96, 13, 1, 255), 0, 8),
		MessageLong:     NewStringField(o(0, 0, 96, 13, 0, 255), 0, 1024),

		EnergyDeliveredTariff1: NewFixedDecimalField(o(1, 0, 1, 8, 1, 255), 3, "kWh"),
		EnergyDeliveredTariff2: NewFixedDecimalField(o(1, 0, 1, 8, 2, 255), 3, "kWh"),
		EnergyReturnedTariff1:  NewFixedDecimalField(o(1, 0, 2, 8, 1, 255), 3, "kWh"),
		EnergyReturnedTariff2:  NewFixedDecimalField(o(1, 0, 2, 8, 2, 255), 3, "kWh"),
		EnergyDeliveredLux:     NewFixedDecimalFieldWithFallback(o(1, 0, 1, 8, 0, 255), 3, "kWh", "Wh"),
		PowerDelivered:         NewFixedDecimalField(o(1, 0, 1, 7, 0, 255), 3, "kW"),
		PowerReturned:          NewFixedDecimalField(o(1, 0, 2, 7, 0, 255), 3, "kW"),
		ElectricityThreshold:   NewFixedDecimalField(o(0, 0, 17, 0, 0, 255), 1, "kW"),

		ElectricitySwitchPosition: NewIntegerField(o(0, 0, 96, 3, 10, 255), ""),
		NumberOfPowerFailures:     NewIntegerField(o(0, 0, 96, 7, 21, 255), ""),
		NumberOfLongPowerFailures: NewIntegerField(o(0, 0, 96, 7, 9, 255), ""),
		ElectricityFailureLog:     NewRawField(o(1, 0, 99, 97, 0, 255)),

		VoltageSagsL1:   NewIntegerField(o(1, 0, 32, 32, 0, 255), ""),
		VoltageSagsL2:   NewIntegerField(o(1, 0, 52, 32, 0, 255), ""),
		VoltageSagsL3:   NewIntegerField(o(1, 0, 72, 32, 0, 255), ""),
		VoltageSwellsL1: NewIntegerField(o(1, 0, 32, 36, 0, 255), ""),
		VoltageSwellsL2: NewIntegerField(o(1, 0, 52, 36, 0, 255), ""),
		VoltageSwellsL3: NewIntegerField(o(1, 0, 72, 36, 0, 255), ""),

		InstantaneousVoltageL1: NewFixedDecimalField(o(1, 0, 32, 7, 0, 255), 1, "V"),
		InstantaneousVoltageL2: NewFixedDecimalField(o(1, 0, 52, 7, 0, 255), 1, "V"),
		InstantaneousVoltageL3: NewFixedDecimalField(o(1, 0, 72, 7, 0, 255), 1, "V"),
		InstantaneousCurrentL1: NewFixedDecimalField(o(1, 0, 31, 7, 0, 255), 0, "A"),
		InstantaneousCurrentL2: NewFixedDecimalField(o(1, 0, 51, 7, 0, 255), 0, "A"),
		InstantaneousCurrentL3: NewFixedDecimalField(o(1, 0, 71, 7, 0, 255), 0, "A"),

		InstantaneousActivePowerL1Plus:  NewFixedDecimalField(o(1, 0, 21, 7, 0, 255), 3, "kW"),
		InstantaneousActivePowerL2Plus:  NewFixedDecimalField(o(1, 0, 41, 7, 0, 255), 3, "kW"),
		InstantaneousActivePowerL3Plus:  NewFixedDecimalField(o(1, 0, 61, 7, 0, 255), 3, "kW"),
		InstantaneousActivePowerL1Minus: NewFixedDecimalField(o(1, 0, 22, 7, 0, 255), 3, "kW"),
		InstantaneousActivePowerL2Minus: NewFixedDecimalField(o(1, 0, 42, 7, 0, 255), 3, "kW"),
		InstantaneousActivePowerL3Minus: NewFixedDecimalField(o(1, 0, 62, 7, 0, 255), 3, "kW"),

		GasDeviceType:    NewIntegerField(o(0, 1, 24, 1, 0, 255), ""),
		GasEquipmentID:   NewStringField(o(0, 1, 96, 1, 0, 255), 0, 96),
		GasValvePosition: NewIntegerField(o(0, 1, 24, 4, 0, 255), ""),
		GasDelivered:     NewTimestampedFixedDecimalField(o(0, 1, 24, 2, 1, 255), 3, "m3"),

		ThermalDeviceType:    NewIntegerField(o(0, 2, 24, 1, 0, 255), ""),
		ThermalEquipmentID:   NewStringField(o(0, 2, 96, 1, 0, 255), 0, 96),
		ThermalValvePosition: NewIntegerField(o(0, 2, 24, 4, 0, 255), ""),
		ThermalDelivered:     NewTimestampedFixedDecimalField(o(0, 2, 24, 2, 1, 255), 3, "GJ"),

		WaterDeviceType:    NewIntegerField(o(0, 3, 24, 1, 0, 255), ""),
		WaterEquipmentID:   NewStringField(o(0, 3, 96, 1, 0, 255), 0, 96),
		WaterValvePosition: NewIntegerField(o(0, 3, 24, 4, 0, 255), ""),
		WaterDelivered:     NewTimestampedFixedDecimalField(o(0, 3, 24, 2, 1, 255), 3, "m3"),

		ActiveEnergyImportMaximumDemandRunningMonth: NewTimestampedFixedDecimalField(o(1, 0, 1, 6, 0, 255), 3, "kW"),
		ActiveEnergyImportMaximumDemandLast13Months: NewAveragedFixedDecimalFieldWithFallback(o(0, 0, 98, 1, 0, 255), 3, "kW", "W"),
		MaximumDemandCurrentAveragingPeriod:         NewAveragedFixedDecimalField(o(1, 0, 1, 4, 0, 255), 3, "kW"),
	}

	t.fields = []field.Descriptor{
		t.Identification,
		t.P1Version, t.Timestamp, t.EquipmentID, t.TariffIndicator, t.MessageShort, t.MessageLong,
		t.EnergyDeliveredTariff1, t.EnergyDeliveredTariff2, t.EnergyReturnedTariff1, t.EnergyReturnedTariff2,
		t.EnergyDeliveredLux,
		t.PowerDelivered, t.PowerReturned, t.ElectricityThreshold,
		t.ElectricitySwitchPosition, t.NumberOfPowerFailures, t.NumberOfLongPowerFailures, t.ElectricityFailureLog,
		t.VoltageSagsL1, t.VoltageSagsL2, t.VoltageSagsL3,
		t.VoltageSwellsL1, t.VoltageSwellsL2, t.VoltageSwellsL3,
		t.InstantaneousVoltageL1, t.InstantaneousVoltageL2, t.InstantaneousVoltageL3,
		t.InstantaneousCurrentL1, t.InstantaneousCurrentL2, t.InstantaneousCurrentL3,
		t.InstantaneousActivePowerL1Plus, t.InstantaneousActivePowerL2Plus, t.InstantaneousActivePowerL3Plus,
		t.InstantaneousActivePowerL1Minus, t.InstantaneousActivePowerL2Minus, t.InstantaneousActivePowerL3Minus,
		t.GasDeviceType, t.GasEquipmentID, t.GasValvePosition, t.GasDelivered,
		t.ThermalDeviceType, t.ThermalEquipmentID, t.ThermalValvePosition, t.ThermalDelivered,
		t.WaterDeviceType, t.WaterEquipmentID, t.WaterValvePosition, t.WaterDelivered,
		t.ActiveEnergyImportMaximumDemandRunningMonth, t.ActiveEnergyImportMaximumDemandLast13Months,
		t.MaximumDemandCurrentAveragingPeriod,
	}
	return t
}

// Fields implements field.Record.
func (t *Telegram) Fields() []field.Descriptor { return t.fields }

// Validate reports every mandatory field (identification, P1 version,
// timestamp, equipment id, the four tariff energy registers, and delivered
// and returned power; all other fields are optional) that was never
// populated, accumulated via multierr so a caller sees the whole picture
// instead of stopping at the first miss.
func (t *Telegram) Validate() error {
	mandatory := []field.Descriptor{
		t.Identification, t.P1Version, t.Timestamp, t.EquipmentID,
		t.EnergyDeliveredTariff1, t.EnergyDeliveredTariff2,
		t.EnergyReturnedTariff1, t.EnergyReturnedTariff2,
		t.PowerDelivered, t.PowerReturned,
	}
	var err error
	for _, f := range mandatory {
		if !f.Present() {
			err = multierr.Append(err, missingFieldError{id: f.ID()})
		}
	}
	return err
}

type missingFieldError struct{ id obis.ID }

func (e missingFieldError) Error() string {
	return "missing mandatory field " + e.id.String()
}
