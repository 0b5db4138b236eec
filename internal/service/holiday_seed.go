package service

// Standard Indian gazetted holidays observed by most companies. Lunar and
// religious holidays shift each year; admins add, remove or update them
// through the holiday API.
type seedHoliday struct {
	Date string
	Name string
}

var gazettedHolidays = map[int][]seedHoliday{
	2025: {
		{"2025-01-26", "Republic Day"},
		{"2025-03-14", "Holi"},
		{"2025-03-31", "Eid ul-Fitr"},
		{"2025-04-10", "Mahavir Jayanti"},
		{"2025-04-14", "Dr. Ambedkar Jayanti"},
		{"2025-04-18", "Good Friday"},
		{"2025-05-01", "May Day"},
		{"2025-05-12", "Buddha Purnima"},
		{"2025-06-07", "Eid ul-Adha"},
		{"2025-08-15", "Independence Day"},
		{"2025-08-16", "Janmashtami"},
		{"2025-10-02", "Mahatma Gandhi Jayanti / Dussehra"}, // same date in 2025
		{"2025-10-20", "Diwali"},
		{"2025-11-05", "Guru Nanak Jayanti"},
		{"2025-12-25", "Christmas"},
	},
	2026: {
		{"2026-01-26", "Republic Day"},
		{"2026-03-04", "Holi"},
		{"2026-03-21", "Eid ul-Fitr"},
		{"2026-03-30", "Mahavir Jayanti"},
		{"2026-04-03", "Good Friday"},
		{"2026-04-14", "Dr. Ambedkar Jayanti"},
		{"2026-05-01", "May Day"},
		{"2026-05-02", "Buddha Purnima"},
		{"2026-05-28", "Eid ul-Adha"},
		{"2026-08-15", "Independence Day"},
		{"2026-08-25", "Janmashtami"},
		{"2026-10-02", "Mahatma Gandhi Jayanti"},
		{"2026-10-12", "Dussehra"},
		{"2026-10-31", "Diwali"},
		{"2026-11-19", "Guru Nanak Jayanti"},
		{"2026-12-25", "Christmas"},
	},
}
