package entities

// Ayah is one addressable unit of quiz content: a single verse with its
// text and the metadata needed to locate it and build its audio URL.
// Ayahs are immutable once loaded; a session borrows a page's worth of them.
type Ayah struct {
	Number        int     // global ayah number, unique across the mushaf
	NumberInSurah int     // ordinal position of the ayah within its surah
	Text          string  // full Arabic text
	SurahName     string  // name of the owning surah
	PageNumber    int     // mushaf page the ayah belongs to
	Duration      float64 // recitation duration in seconds, qari-dependent
}
