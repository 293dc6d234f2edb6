// Package registers holds the declarative register catalog for both
// scooter address spaces (controller and BMS) plus the pure decode/scale
// functions applied to raw register bytes (spec §3, §4.6).
package registers

import (
	"fmt"

	"github.com/fhunleth/ninebot-ble/internal/ble/protocol"
)

// DeviceClass is an optional semantic category carried on a descriptor
// for downstream formatting (e.g. a home-automation sensor entity).
type DeviceClass string

const (
	ClassDistance    DeviceClass = "distance"
	ClassDuration    DeviceClass = "duration"
	ClassTemperature DeviceClass = "temperature"
	ClassVoltage     DeviceClass = "voltage"
	ClassCurrent     DeviceClass = "current"
	ClassBattery     DeviceClass = "battery"
	ClassSpeed       DeviceClass = "speed"
	ClassPower       DeviceClass = "power"
)

// Unit is an optional unit tag carried on a descriptor.
type Unit string

const (
	UnitKilometers      Unit = "km"
	UnitHours           Unit = "h"
	UnitCelsius         Unit = "°C"
	UnitVolt            Unit = "V"
	UnitAmpere          Unit = "A"
	UnitPercent         Unit = "%"
	UnitKilometersPerHr Unit = "km/h"
	UnitWatt            Unit = "W"
)

// Descriptor is an immutable catalog entry: where to read from, how much
// to read, and how to turn the raw bytes into a typed value.
type Descriptor struct {
	IndexStart  uint8
	IndexLen    int
	ReadLen     uint8
	Decode      Decoder
	Scale       Scaler // optional
	Unit        Unit   // optional
	DeviceClass DeviceClass
}

// RegisterId names one addressable entry in either the controller or the
// BMS address space.
type RegisterId interface {
	fmt.Stringer
	target() protocol.DeviceId
	descriptor() (Descriptor, bool)
}

// ControllerReg enumerates the ES_CONTROL address space.
type ControllerReg string

// BmsReg enumerates the ES_BATT (BMS) address space.
type BmsReg string

const (
	NBInfSN            ControllerReg = "scooter serial number"
	NBInfBTPassword    ControllerReg = "bluetooth pairing code"
	NBFWVer            ControllerReg = "controller firmware"
	NBInfError         ControllerReg = "error code"
	NBInfAlarm         ControllerReg = "alarm code"
	NBInfBoolLimitSpd  ControllerReg = "speed limited"
	NBInfBoolLock      ControllerReg = "scooter locked"
	NBInfBoolBeep      ControllerReg = "buzzer alarm activated"
	NBInfBoolBat2In    ControllerReg = "external battery inserted"
	NBInfBoolAct       ControllerReg = "scooter activated"
	NBInfActualMil     ControllerReg = "actual remaining mileage"
	NBInfPrdRidMil     ControllerReg = "predicted remaining mileage"
	NBInfRidMil        ControllerReg = "total mileage"
	NBInfRunTim        ControllerReg = "total operation time"
	NBInfRidTim        ControllerReg = "total riding time"
	NBInfBodyTemp      ControllerReg = "scooter temperature"
	NBInfDrvVolt       ControllerReg = "controller supply voltage"
	NBInfAvrSpeed      ControllerReg = "average speed"
	NBInfVerBMS2       ControllerReg = "external bms firmware version"
	NBInfVerBLE        ControllerReg = "ble firmware version"
	NBCtlLimitSpd      ControllerReg = "speed limit or speed limit release"
	NBCtlNormalSpeed   ControllerReg = "speed limit value in normal mode"
	NBCtlLitSpeed      ControllerReg = "speed limit value in speed limit mode"
	NBCtlWorkMode      ControllerReg = "operating mode"
	NBCtlKers          ControllerReg = "kers level"
	NBCtlCruise        ControllerReg = "cruise control enabled"
	NBCtlTailLight     ControllerReg = "tail light on"
	NBSingleMil        ControllerReg = "single mileage"
	NBSingleRunTim     ControllerReg = "single operation time"
	NBPower            ControllerReg = "scooter power"
)

const (
	BatSN                  BmsReg = "bms serial number"
	BatSWVer               BmsReg = "bms firmware version"
	BatCapacity            BmsReg = "battery factory capacity"
	BatOverflowTimes       BmsReg = "battery overflowing times"
	BatOverdischargeTimes  BmsReg = "battery over-discharging times"
	BatRemainingCap        BmsReg = "remaining battery capacity, mah"
	BatRemainingCapPercent BmsReg = "remaining battery capacity"
	BatCurrentCur          BmsReg = "battery current"
	BatVoltageCur          BmsReg = "battery voltage"
	BatTempCur1            BmsReg = "battery temperature 1"
	BatTempCur2            BmsReg = "battery temperature 2"
	BatBalanceStatus       BmsReg = "battery balancing open status"
	BatOdisState           BmsReg = "battery cell undervoltage condition"
	BatOchgState           BmsReg = "battery cell overvoltage condition"
	BatHealthy             BmsReg = "battery health"
)

func (r ControllerReg) String() string           { return string(r) }
func (r ControllerReg) target() protocol.DeviceId { return protocol.ESControl }
func (r ControllerReg) descriptor() (Descriptor, bool) {
	d, ok := controllerTable[r]
	return d, ok
}

func (r BmsReg) String() string           { return string(r) }
func (r BmsReg) target() protocol.DeviceId { return protocol.ESBatt }
func (r BmsReg) descriptor() (Descriptor, bool) {
	d, ok := bmsTable[r]
	return d, ok
}

var _ RegisterId = ControllerReg("")
var _ RegisterId = BmsReg("")

// Target returns the device a RegisterId must be read from.
func Target(id RegisterId) protocol.DeviceId { return id.target() }

// Lookup returns the catalog entry for id, or false if unknown.
func Lookup(id RegisterId) (Descriptor, bool) { return id.descriptor() }

// controllerTable is the ES_CONTROL address space, ported bit-exactly
// from the original register catalog. NB_POWER and NB_SINGLE_RUN_TIM
// both address 0xBA in the source data — this looks like a copy/paste
// error upstream, but per spec §9 it is preserved rather than silently
// deduplicated: both remain independently addressable and will read the
// same raw bytes, differing only in scaler/unit.
var controllerTable = map[ControllerReg]Descriptor{
	NBInfSN:         {IndexStart: 0x10, IndexLen: 7, ReadLen: 2, Decode: DecodeString},
	NBInfBTPassword: {IndexStart: 0x17, IndexLen: 3, ReadLen: 2, Decode: DecodeString},
	NBFWVer:         {IndexStart: 0x1A, IndexLen: 1, ReadLen: 2, Decode: DecodeVersion},
	NBInfError:      {IndexStart: 0x1B, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	NBInfAlarm:      {IndexStart: 0x1C, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},

	NBInfBoolLimitSpd: {IndexStart: 0x1D, IndexLen: 1, ReadLen: 2, Decode: DecodeBitfieldBool(0)},
	NBInfBoolLock:     {IndexStart: 0x1D, IndexLen: 1, ReadLen: 2, Decode: DecodeBitfieldBool(1)},
	NBInfBoolBeep:     {IndexStart: 0x1D, IndexLen: 1, ReadLen: 2, Decode: DecodeBitfieldBool(2)},
	NBInfBoolBat2In:   {IndexStart: 0x1D, IndexLen: 1, ReadLen: 2, Decode: DecodeBitfieldBool(9)},
	NBInfBoolAct:      {IndexStart: 0x1D, IndexLen: 1, ReadLen: 2, Decode: DecodeBitfieldBool(11)},

	NBInfActualMil: {
		IndexStart: 0x24, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(100), DeviceClass: ClassDistance, Unit: UnitKilometers,
	},
	NBInfPrdRidMil: {
		IndexStart: 0x25, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(100), DeviceClass: ClassDistance, Unit: UnitKilometers,
	},
	NBInfRidMil: {
		IndexStart: 0x29, IndexLen: 2, ReadLen: 2, Decode: DecodeU32From2U16LE,
		Scale: scaleDivRound(1000, 1), DeviceClass: ClassDistance, Unit: UnitKilometers,
	},
	NBInfRunTim: {
		IndexStart: 0x32, IndexLen: 2, ReadLen: 2, Decode: DecodeU32From2U16LE,
		Scale: scaleDivRound(1000, 1), DeviceClass: ClassDuration, Unit: UnitHours,
	},
	NBInfRidTim: {
		IndexStart: 0x34, IndexLen: 2, ReadLen: 2, Decode: DecodeU32From2U16LE,
		Scale: scaleDivRound(3600, 1), DeviceClass: ClassDuration, Unit: UnitHours,
	},
	NBInfBodyTemp: {
		IndexStart: 0x3E, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(10), DeviceClass: ClassTemperature, Unit: UnitCelsius,
	},
	NBInfDrvVolt: {
		IndexStart: 0x47, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(100), DeviceClass: ClassVoltage, Unit: UnitVolt,
	},
	NBInfAvrSpeed: {
		IndexStart: 0x65, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(10), Unit: UnitKilometersPerHr,
	},
	NBInfVerBMS2: {IndexStart: 0x66, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	NBInfVerBLE:  {IndexStart: 0x68, IndexLen: 1, ReadLen: 2, Decode: DecodeVersion},

	NBCtlLimitSpd: {
		IndexStart: 0x72, IndexLen: 1, ReadLen: 2, Decode: DecodeS16LE,
		Scale: scaleDiv(10), Unit: UnitKilometersPerHr,
	},
	NBCtlNormalSpeed: {
		IndexStart: 0x73, IndexLen: 1, ReadLen: 2, Decode: DecodeS16LE,
		Scale: scaleDiv(10), Unit: UnitKilometersPerHr,
	},
	NBCtlLitSpeed: {
		IndexStart: 0x74, IndexLen: 1, ReadLen: 2, Decode: DecodeS16LE,
		Scale: scaleDiv(10), Unit: UnitKilometersPerHr,
	},
	NBCtlWorkMode:  {IndexStart: 0x75, IndexLen: 1, ReadLen: 2, Decode: DecodeOpMode},
	NBCtlKers:      {IndexStart: 0x7B, IndexLen: 1, ReadLen: 2, Decode: DecodeKersLevel},
	NBCtlCruise:    {IndexStart: 0x7C, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	NBCtlTailLight: {IndexStart: 0x7D, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},

	NBSingleMil: {
		IndexStart: 0xB9, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(100), DeviceClass: ClassDistance, Unit: UnitKilometers,
	},
	NBSingleRunTim: {
		IndexStart: 0xBA, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDivRound(3600, 1), DeviceClass: ClassDuration, Unit: UnitHours,
	},
	NBPower: {
		IndexStart: 0xBA, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Unit: UnitWatt,
	},
}

// bmsTable is the ES_BATT (BMS) address space, ported bit-exactly from
// the original register catalog.
var bmsTable = map[BmsReg]Descriptor{
	BatSN:       {IndexStart: 0x10, IndexLen: 7, ReadLen: 2, Decode: DecodeHex},
	BatSWVer:    {IndexStart: 0x17, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	BatCapacity: {IndexStart: 0x18, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},

	BatOverflowTimes:      {IndexStart: 0x1F, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE, Scale: scaleLowByte()},
	BatOverdischargeTimes: {IndexStart: 0x1F, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE, Scale: scaleHighByte()},

	BatRemainingCap: {IndexStart: 0x31, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	BatRemainingCapPercent: {
		IndexStart: 0x32, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		DeviceClass: ClassBattery, Unit: UnitPercent,
	},
	BatCurrentCur: {
		IndexStart: 0x33, IndexLen: 1, ReadLen: 2, Decode: DecodeS16LE,
		Scale: scaleDiv(100), Unit: UnitAmpere,
	},
	BatVoltageCur: {
		IndexStart: 0x34, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleDiv(100), Unit: UnitVolt,
	},
	BatTempCur1: {
		IndexStart: 0x35, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleTempLowByte(), Unit: UnitCelsius,
	},
	BatTempCur2: {
		IndexStart: 0x35, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE,
		Scale: scaleTempHighByte(), Unit: UnitCelsius,
	},
	BatBalanceStatus: {IndexStart: 0x36, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	BatOdisState:     {IndexStart: 0x37, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	BatOchgState:     {IndexStart: 0x38, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE},
	BatHealthy:       {IndexStart: 0x3B, IndexLen: 1, ReadLen: 2, Decode: DecodeU16LE, Unit: UnitPercent},
}

// AllControllerRegisters returns every known controller register id, in
// a stable order (catalog declaration order, as listed below), for bulk
// reads like a "dump everything" CLI command.
func AllControllerRegisters() []ControllerReg {
	return []ControllerReg{
		NBInfSN, NBInfBTPassword, NBFWVer, NBInfError, NBInfAlarm,
		NBInfBoolLimitSpd, NBInfBoolLock, NBInfBoolBeep, NBInfBoolBat2In, NBInfBoolAct,
		NBInfActualMil, NBInfPrdRidMil, NBInfRidMil, NBInfRunTim, NBInfRidTim,
		NBInfBodyTemp, NBInfDrvVolt, NBInfAvrSpeed, NBInfVerBMS2, NBInfVerBLE,
		NBCtlLimitSpd, NBCtlNormalSpeed, NBCtlLitSpeed, NBCtlWorkMode, NBCtlKers,
		NBCtlCruise, NBCtlTailLight, NBSingleMil, NBSingleRunTim, NBPower,
	}
}

// AllBmsRegisters returns every known BMS register id, in catalog order.
func AllBmsRegisters() []BmsReg {
	return []BmsReg{
		BatSN, BatSWVer, BatCapacity, BatOverflowTimes, BatOverdischargeTimes,
		BatRemainingCap, BatRemainingCapPercent, BatCurrentCur, BatVoltageCur,
		BatTempCur1, BatTempCur2, BatBalanceStatus, BatOdisState, BatOchgState, BatHealthy,
	}
}
