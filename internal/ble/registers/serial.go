package registers

import (
	"fmt"
	"strconv"
	"time"
)

// ProductSeries is the scooter product family encoded in the first three
// characters of a controller serial number.
type ProductSeries string

const (
	SeriesE   ProductSeries = "N2G"
	SeriesMax ProductSeries = "N4G"
	SeriesF   ProductSeries = "N5G"
)

// productVersionNames maps (series, 4th serial character) to a marketed
// product name. This flat lookup table is pure data carried over from
// the original catalog (spec.md calls the serial→product-name mapping
// "pure data; uninteresting"); the parsing logic around it (SerialInfo)
// is the actually interesting part and is implemented/tested below.
var productVersionNames = map[ProductSeries]map[byte]string{
	SeriesE: {
		'D': "E22", 'G': "E22E", 'I': "E22D", 'V': "E25", 'Y': "E25D",
		'X': "E25E", 'Z': "E25A", 'R': "E45D", 'O': "E45E", 'M': "E45E",
		'Q': "E45 (30 km/h)",
	},
	SeriesMax: {
		'S': "G30P (30 km/h)", 'C': "G30 (25 km/h)", 'E': "G30D blue (20 km/h)",
		'P': "G30E (25 km/h)", 'N': "G30LP (30 km/h)", 'A': "G30LE (25 km/h)",
		'O': "G30LE (25 km/h)", 'M': "G30LD (20 km/h)", 'T': "G30M (25 km/h)",
		'2': "SNSC2.2A (25 km/h)", '0': "SNSC2.3 (25 km/h)", '1': "Audi EKS G30D (20 km/h)",
	},
	SeriesF: {
		'A': "F20", 'B': "F20D", 'C': "F30", 'D': "F30D", 'E': "F40",
		'F': "F40E", 'G': "F40D", 'H': "F60", 'I': "F60D/F60E", 'J': "F60D/F60E",
		'M': "F60A/F60 Asia", 'N': "F25", 'O': "F20A", 'Q': "F30E", 'R': "F40A",
		'S': "F20E/F20D (?)", 'V': "F40", 'W': "F25E",
	},
}

// SerialInfo is the structured decoding of a controller serial number
// (the NB_INF_SN register), ported from the original's SerialParser.
type SerialInfo struct {
	Series          ProductSeries
	ProductVersion  string // marketed name, or "<series>-series" if unknown
	ProductionLine  byte
	ProductionYear  int
	ProductionWeek  int
	ProductRevision byte
	WeeklySerial    int
}

// ProductionDate returns the Monday of the ISO week the scooter was
// produced in.
func (s SerialInfo) ProductionDate() time.Time {
	return isoWeekMonday(s.ProductionYear, s.ProductionWeek)
}

func (s SerialInfo) String() string {
	return fmt.Sprintf("Ninebot %s", s.ProductVersion)
}

// ParseSerial decodes a 14+ character controller serial number. It
// returns a decode error (not a partial/zero SerialInfo) for anything
// shorter, or whose product series isn't one of the three known values —
// matching this module's general policy that decode failures propagate
// rather than silently returning sentinels.
func ParseSerial(serial string) (SerialInfo, error) {
	if len(serial) < 14 {
		return SerialInfo{}, fmt.Errorf("registers: serial %q shorter than 14 characters: %w", serial, ErrDecode)
	}

	series := ProductSeries(serial[:3])
	switch series {
	case SeriesE, SeriesMax, SeriesF:
	default:
		return SerialInfo{}, fmt.Errorf("registers: unsupported product series %q in serial %q: %w", serial[:3], serial, ErrDecode)
	}

	year, err := strconv.Atoi(serial[5:7])
	if err != nil {
		return SerialInfo{}, fmt.Errorf("registers: invalid production year in serial %q: %w: %w", serial, err, ErrDecode)
	}
	week, err := strconv.Atoi(serial[7:9])
	if err != nil {
		return SerialInfo{}, fmt.Errorf("registers: invalid production week in serial %q: %w: %w", serial, err, ErrDecode)
	}
	weeklySerial, err := strconv.Atoi(serial[10:14])
	if err != nil {
		return SerialInfo{}, fmt.Errorf("registers: invalid weekly serial in serial %q: %w: %w", serial, err, ErrDecode)
	}

	version, ok := productVersionNames[series][serial[3]]
	if !ok {
		version = string(series) + "-series"
	}

	return SerialInfo{
		Series:          series,
		ProductVersion:  version,
		ProductionLine:  serial[4],
		ProductionYear:  2000 + year,
		ProductionWeek:  week,
		ProductRevision: serial[9],
		WeeklySerial:    weeklySerial,
	}, nil
}

// isoWeekMonday returns the Monday of ISO week `week` in `year`. Jan 4th
// always falls in ISO week 1, so we anchor on it and walk back to that
// week's Monday before stepping forward (week-1) more weeks.
func isoWeekMonday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	week1Monday := jan4.AddDate(0, 0, -offset)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
