package zone

import "github.com/epaustria/idfkit/internal/idf"

// scheduleEntry is one "Until: HH:MM" / value pair.
type scheduleEntry struct {
	until string
	value string
}

// compactSchedule assembles a Schedule:Compact record covering the whole
// year. Each day block is a "For:" selector with its entries.
func compactSchedule(name, typeLimits string, blocks ...dayBlock) idf.Object {
	values := []string{name, typeLimits, "Through: 12/31"}
	for _, b := range blocks {
		values = append(values, "For: "+b.days)
		for _, e := range b.entries {
			values = append(values, "Until: "+e.until, e.value)
		}
	}
	obj := idf.NewObject("Schedule:Compact", values...)
	obj.Fields[0].Comment = "Name"
	obj.Fields[1].Comment = "Schedule Type Limits Name"
	return obj
}

type dayBlock struct {
	days    string
	entries []scheduleEntry
}

func allDays(entries ...scheduleEntry) dayBlock {
	return dayBlock{days: "AllDays", entries: entries}
}

func weekdays(entries ...scheduleEntry) dayBlock {
	return dayBlock{days: "Weekdays", entries: entries}
}

func weekends(entries ...scheduleEntry) dayBlock {
	return dayBlock{days: "Weekends Holidays", entries: entries}
}

func e(until, value string) scheduleEntry {
	return scheduleEntry{until: until, value: value}
}

// scheduleObjects generates the four room schedules: occupancy, activity
// level, lighting and equipment, with room-type specific day profiles.
func scheduleObjects(cfg Config) []idf.Object {
	return []idf.Object{
		occupancySchedule(cfg),
		activitySchedule(cfg),
		lightingSchedule(cfg),
		equipmentSchedule(cfg),
	}
}

func occupancySchedule(cfg Config) idf.Object {
	name := cfg.Name + "_Anwesenheit"
	switch cfg.RoomType {
	case "schlafzimmer":
		return compactSchedule(name, "Fraction", allDays(
			e("7:00", "1.0"), e("8:00", "0.8"), e("21:00", "0.1"),
			e("23:00", "0.5"), e("24:00", "1.0"),
		))
	case "badezimmer":
		return compactSchedule(name, "Fraction",
			weekdays(
				e("6:00", "0.0"), e("8:00", "0.8"), e("18:00", "0.1"),
				e("22:00", "0.6"), e("24:00", "0.1"),
			),
			weekends(
				e("8:00", "0.0"), e("10:00", "0.6"), e("22:00", "0.2"),
				e("23:00", "0.6"), e("24:00", "0.1"),
			),
		)
	default:
		return compactSchedule(name, "Fraction",
			weekdays(
				e("6:00", "1.0"), e("8:00", "1.0"), e("17:00", "0.2"),
				e("23:00", "1.0"), e("24:00", "1.0"),
			),
			weekends(
				e("23:00", "0.9"), e("24:00", "1.0"),
			),
		)
	}
}

func activitySchedule(cfg Config) idf.Object {
	return compactSchedule(cfg.Name+"_Aktivitaet", "Activity Level", allDays(
		e("6:00", "70"), e("8:00", "120"), e("18:00", "100"),
		e("22:00", "110"), e("24:00", "70"),
	))
}

func lightingSchedule(cfg Config) idf.Object {
	name := cfg.Name + "_Beleuchtung"
	if cfg.RoomType == "schlafzimmer" {
		return compactSchedule(name, "Fraction",
			weekdays(
				e("6:00", "0.0"), e("7:00", "0.3"), e("21:00", "0.0"),
				e("23:00", "0.4"), e("24:00", "0.0"),
			),
			weekends(
				e("8:00", "0.0"), e("9:00", "0.2"), e("22:00", "0.0"),
				e("23:00", "0.3"), e("24:00", "0.0"),
			),
		)
	}
	return compactSchedule(name, "Fraction",
		weekdays(
			e("6:00", "0.1"), e("8:00", "0.8"), e("17:00", "0.1"),
			e("22:00", "1.0"), e("24:00", "0.2"),
		),
		weekends(
			e("9:00", "0.1"), e("22:00", "0.8"), e("24:00", "0.2"),
		),
	)
}

func equipmentSchedule(cfg Config) idf.Object {
	name := cfg.Name + "_Geraete"
	if cfg.RoomType == "kueche" {
		return compactSchedule(name, "Fraction",
			weekdays(
				e("6:00", "0.3"), e("8:00", "1.0"), e("12:00", "0.4"),
				e("13:00", "0.8"), e("17:00", "0.3"), e("20:00", "1.0"),
				e("24:00", "0.3"),
			),
			weekends(
				e("9:00", "0.3"), e("10:00", "0.8"), e("13:00", "0.4"),
				e("14:00", "0.8"), e("19:00", "0.3"), e("20:00", "1.0"),
				e("24:00", "0.3"),
			),
		)
	}
	return compactSchedule(name, "Fraction",
		weekdays(
			e("7:00", "0.1"), e("8:00", "0.5"), e("17:00", "0.2"),
			e("22:00", "0.8"), e("24:00", "0.2"),
		),
		weekends(
			e("9:00", "0.1"), e("22:00", "0.6"), e("24:00", "0.2"),
		),
	)
}
