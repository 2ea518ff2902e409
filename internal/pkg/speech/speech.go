package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Synthesizer turns tutor text into audio. Failures are non-fatal to a turn;
// the caller just omits the audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber turns learner audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// OpenAISpeech implements both collaborators on the OpenAI audio endpoints.
type OpenAISpeech struct {
	TTSModel string
	STTModel string
	Voice    string
	client   *openai.Client
}

func NewOpenAISpeech(apiKey string, baseURL string, ttsModel string, sttModel string, voice string) *OpenAISpeech {
	if ttsModel == "" {
		ttsModel = string(openai.TTSModel1)
	}
	if sttModel == "" {
		sttModel = openai.Whisper1
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAISpeech{
		TTSModel: ttsModel,
		STTModel: sttModel,
		Voice:    voice,
		client:   openai.NewClientWithConfig(config),
	}
}

func (s *OpenAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.TTSModel),
		Input: text,
		Voice: openai.SpeechVoice(s.Voice),
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis error: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis read error: %w", err)
	}
	return audio, nil
}

func (s *OpenAISpeech) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("client not initialized")
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.STTModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription error: %w", err)
	}
	return resp.Text, nil
}
