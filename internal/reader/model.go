package reader

type ToggleChapterRequest struct {
	Surah int `json:"surah"`
}

type ToggleVerseRequest struct {
	Surah int `json:"surah"`
	Ayat  int `json:"ayat"`
}

type ToggleResponse struct {
	IsSaved bool `json:"is_saved"`
}
