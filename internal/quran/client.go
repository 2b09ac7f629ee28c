package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const userAgent = "QuranReader/1.0 (https://github.com/taiwoajasa245/quran-reader)"

// Source provides read access to chapter content.
type Source interface {
	ListChapters(ctx context.Context) ([]Chapter, error)
	GetChapter(ctx context.Context, number int) (*ChapterDetail, error)
}

// Client fetches content from the equran.id v2 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a content API client. An empty baseURL selects the public API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://equran.id/api/v2"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ListChapters returns every chapter in canonical order.
func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	var payload []apiChapter
	if err := c.get(ctx, "/surat", &payload); err != nil {
		return nil, err
	}

	chapters := make([]Chapter, 0, len(payload))
	for i := range payload {
		chapters = append(chapters, payload[i].toChapter())
	}
	return chapters, nil
}

// GetChapter returns a chapter with its ordered verses.
func (c *Client) GetChapter(ctx context.Context, number int) (*ChapterDetail, error) {
	if err := ValidateChapter(number); err != nil {
		return nil, err
	}

	var payload apiChapterDetail
	if err := c.get(ctx, fmt.Sprintf("/surat/%d", number), &payload); err != nil {
		return nil, err
	}
	return payload.toDetail(), nil
}

// ValidateChapter checks that number addresses an existing chapter.
func ValidateChapter(number int) error {
	if number < 1 || number > ChapterCount {
		return ErrInvalidChapter
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d for %s", ErrUpstream, resp.StatusCode, path)
	}

	envelope := apiEnvelope{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	if envelope.Code != 0 && envelope.Code != http.StatusOK {
		if envelope.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("%w: api code %d: %s", ErrUpstream, envelope.Code, envelope.Message)
	}
	return nil
}

// equran.id response types (internal)

type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type apiChapter struct {
	Nomor       int               `json:"nomor"`
	Nama        string            `json:"nama"`
	NamaLatin   string            `json:"namaLatin"`
	JumlahAyat  int               `json:"jumlahAyat"`
	TempatTurun string            `json:"tempatTurun"`
	Arti        string            `json:"arti"`
	Deskripsi   string            `json:"deskripsi"`
	AudioFull   map[string]string `json:"audioFull"`
}

func (a *apiChapter) toChapter() Chapter {
	return Chapter{
		Number:          a.Nomor,
		Name:            a.Nama,
		LatinName:       a.NamaLatin,
		Meaning:         a.Arti,
		VerseCount:      a.JumlahAyat,
		RevelationPlace: a.TempatTurun,
		Description:     a.Deskripsi,
		Audio:           AudioSet(a.AudioFull),
	}
}

type apiVerse struct {
	NomorAyat     int               `json:"nomorAyat"`
	TeksArab      string            `json:"teksArab"`
	TeksLatin     string            `json:"teksLatin"`
	TeksIndonesia string            `json:"teksIndonesia"`
	Audio         map[string]string `json:"audio"`
}

type apiChapterDetail struct {
	apiChapter
	Ayat []apiVerse `json:"ayat"`
	// Either a chapter object or the literal false at the ends of the corpus.
	SuratSelanjutnya json.RawMessage `json:"suratSelanjutnya"`
	SuratSebelumnya  json.RawMessage `json:"suratSebelumnya"`
}

func (a *apiChapterDetail) toDetail() *ChapterDetail {
	detail := &ChapterDetail{
		Chapter:  a.toChapter(),
		Verses:   make([]Verse, 0, len(a.Ayat)),
		Next:     decodeSummary(a.SuratSelanjutnya),
		Previous: decodeSummary(a.SuratSebelumnya),
	}
	for _, v := range a.Ayat {
		detail.Verses = append(detail.Verses, Verse{
			ChapterNumber: a.Nomor,
			Number:        v.NomorAyat,
			Arabic:        v.TeksArab,
			Latin:         v.TeksLatin,
			Translation:   v.TeksIndonesia,
			Audio:         AudioSet(v.Audio),
		})
	}
	return detail
}

func decodeSummary(raw json.RawMessage) *ChapterSummary {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var s apiChapter
	if err := json.Unmarshal(raw, &s); err != nil || s.Nomor == 0 {
		return nil
	}
	return &ChapterSummary{
		Number:     s.Nomor,
		Name:       s.Nama,
		LatinName:  s.NamaLatin,
		VerseCount: s.JumlahAyat,
	}
}
