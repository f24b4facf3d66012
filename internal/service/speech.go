package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/breathify/backend/internal/domain"
	"github.com/breathify/backend/internal/metrics"
)

// googleTTSMaxChars is the per-request text limit of the translate TTS endpoint
const googleTTSMaxChars = 100

func checkLanguage(lang string) error {
	switch lang {
	case domain.LanguageEnglish, domain.LanguageUrdu:
		return nil
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
	}
}

// GoogleSynthesizer speaks text through the Google Translate TTS endpoint,
// splitting long text into chunks and concatenating the MP3 frames.
type GoogleSynthesizer struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleSynthesizer creates a synthesizer for the given translate host
func NewGoogleSynthesizer(baseURL string) *GoogleSynthesizer {
	return &GoogleSynthesizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (g *GoogleSynthesizer) Provider() string { return "google" }

// Synthesize returns MP3 audio for the text in the given language
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if err := checkLanguage(lang); err != nil {
		return nil, err
	}

	chunks := splitText(text, googleTTSMaxChars)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: nothing to say", domain.ErrSynthesis)
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		q := url.Values{}
		q.Set("ie", "UTF-8")
		q.Set("client", "tw-ob")
		q.Set("tl", lang)
		q.Set("q", chunk)
		q.Set("total", strconv.Itoa(len(chunks)))
		q.Set("idx", strconv.Itoa(i))
		q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_tts?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrSynthesis, err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: request failed: %v", domain.ErrSynthesis, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: tts endpoint returned status %d", domain.ErrSynthesis, resp.StatusCode)
		}
		_, err = io.Copy(&audio, resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read audio: %v", domain.ErrSynthesis, err)
		}
	}

	return audio.Bytes(), nil
}

// splitText breaks text into pieces of at most limit runes, preferring
// whitespace boundaries. Words longer than limit are cut.
func splitText(text string, limit int) []string {
	var chunks []string
	var current []rune

	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}
		if len(current) > 0 && len(current)+1+len(w) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	flush()

	return chunks
}

// OpenAISynthesizer speaks text with the OpenAI speech API
type OpenAISynthesizer struct {
	client openai.Client
	model  string
}

// NewOpenAISynthesizer creates a synthesizer using the given API key and model
func NewOpenAISynthesizer(apiKey, model string, opts ...option.RequestOption) *OpenAISynthesizer {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAISynthesizer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (o *OpenAISynthesizer) Provider() string { return "openai" }

// Synthesize returns MP3 audio for the text in the given language
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if err := checkLanguage(lang); err != nil {
		return nil, err
	}

	instructions := "Speak calmly and clearly, like a public health announcement."
	if lang == domain.LanguageUrdu {
		instructions = "Speak in Urdu with a Pakistani accent, calmly and clearly, like a public health announcement."
	}

	params := openai.AudioSpeechNewParams{
		Model:          o.model,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoiceAlloy,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	// tts-1 models reject instructions
	if !strings.HasPrefix(o.model, "tts-1") {
		params.Instructions = openai.String(instructions)
	}

	resp, err := o.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: openai speech: %v", domain.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", domain.ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", domain.ErrSynthesis)
	}
	return audio, nil
}

// instrumentedSynthesizer counts synthesis outcomes per provider
type instrumentedSynthesizer struct {
	Synthesizer
}

// WithMetrics wraps a synthesizer so each call is counted
func WithMetrics(s Synthesizer) Synthesizer {
	return instrumentedSynthesizer{Synthesizer: s}
}

func (i instrumentedSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	audio, err := i.Synthesizer.Synthesize(ctx, text, lang)
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.SynthesisTotal.WithLabelValues(i.Provider(), lang, status).Inc()
	return audio, err
}
