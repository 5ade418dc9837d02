package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"article-podcaster/internal/db"
	"article-podcaster/internal/test"
	"article-podcaster/internal/textproc"
	"article-podcaster/internal/tts"
	"article-podcaster/internal/vault"
)

type fakeSynthesizer struct {
	maxBytes int
	calls    []string
	err      error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, text)
	return []byte(text + "|"), nil
}

func (f *fakeSynthesizer) Name() string { return "fake" }

func (f *fakeSynthesizer) MaxChunkBytes() int { return f.maxBytes }

type fakeStore struct {
	uploadedName string
	uploadedData []byte
	uploadErr    error
	deleted      []string
}

func (s *fakeStore) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploadedName = name
	s.uploadedData = data
	return "https://cdn.test/" + name, nil
}

func (s *fakeStore) Delete(ctx context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

// overrideSynthesizer installs a fake provider factory for the duration of
// the test, the same way the worker tests stub exec.Command.
func overrideSynthesizer(t *testing.T, fn func(provider, apiKey, voice string) (tts.Synthesizer, error)) {
	original := newSynthesizer
	newSynthesizer = fn
	t.Cleanup(func() { newSynthesizer = original })
}

const testSecret = "test-encryption-key-32-chars!!"

func newTestVault(t *testing.T) *vault.Vault {
	v, err := vault.New(testSecret)
	assert.NoError(t, err)
	return v
}

func articleColumns() []string {
	return []string{"id", "url", "title", "content", "author", "source_type", "is_editable", "created_at"}
}

func settingsColumns() []string {
	return []string{"id", "podcast_title", "podcast_description", "podcast_author", "podcast_cover_url",
		"default_tts_provider", "google_voice_name", "elevenlabs_voice_id",
		"google_tts_api_key", "elevenlabs_api_key", "created_at", "updated_at"}
}

func episodeColumns() []string {
	return []string{"id", "article_id", "audio_url", "duration", "file_size", "status",
		"tts_provider", "error_message", "created_at", "completed_at"}
}

func settingsRow(googleKey interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(settingsColumns()).
		AddRow(1, "Podcast", "Description", "Auteur", nil, "google", "fr-FR-Neural2-A", nil, googleKey, nil, time.Now(), time.Now())
}

func TestGenerate_Success(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	ciphertext, err := v.Encrypt("plain-api-key")
	assert.NoError(t, err)

	content := "Bonjour tout le monde. Voici un article très court."
	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Titre", content, nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).
		WillReturnRows(settingsRow(ciphertext))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusPending, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectedAudio := textproc.SanitizeForTTS(content) + "|"
	mock.ExpectExec(`SET status = 'completed'`).
		WithArgs(sqlmock.AnyArg(), 0, int64(len(expectedAudio)), "google", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fake := &fakeSynthesizer{maxBytes: 4500}
	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		assert.Equal(t, "google", provider)
		assert.Equal(t, "plain-api-key", apiKey)
		assert.Equal(t, "fr-FR-Neural2-A", voice)
		return fake, nil
	})

	store := &fakeStore{}
	g := New(v, store)

	result, err := g.Generate(context.Background(), 1, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.EpisodeID)
	assert.Equal(t, db.StatusCompleted, result.Status)

	assert.Len(t, fake.calls, 1)
	assert.Equal(t, expectedAudio, string(store.uploadedData))
	assert.True(t, strings.HasPrefix(store.uploadedName, "episode-"))
	assert.True(t, strings.HasSuffix(store.uploadedName, ".mp3"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_ChunksStayInOrder(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	ciphertext, err := v.Encrypt("plain-api-key")
	assert.NoError(t, err)

	// ~12,000 characters; a 5,000-byte bound yields three ordered chunks.
	sentence := strings.Repeat("abcde ", 16) + "fin."
	sentences := make([]string, 120)
	for i := range sentences {
		sentences[i] = sentence
	}
	content := strings.Join(sentences, " ")

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Long", content, nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).
		WillReturnRows(settingsRow(ciphertext))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusPending, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'completed'`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "google", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fake := &fakeSynthesizer{maxBytes: 5000}
	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		return fake, nil
	})

	store := &fakeStore{}
	g := New(v, store)

	_, err = g.Generate(context.Background(), 1, "")
	assert.NoError(t, err)

	expectedChunks := textproc.SplitIntoChunks(textproc.SanitizeForTTS(content), 5000)
	assert.Len(t, expectedChunks, 3)
	assert.Equal(t, expectedChunks, fake.calls)

	// Concatenated audio carries the chunks in original order.
	assert.Equal(t, strings.Join(expectedChunks, "|")+"|", string(store.uploadedData))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_NoCredentialForProvider(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Titre", "Contenu.", nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).
		WillReturnRows(settingsRow(nil))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusPending, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE episodes SET status = 'failed', error_message = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		t.Fatal("synthesizer must not be constructed without a credential")
		return nil, nil
	})

	store := &fakeStore{}
	g := New(v, store)

	_, err := g.Generate(context.Background(), 1, "")
	assert.ErrorContains(t, err, "no API key configured for provider google")
	assert.Empty(t, store.uploadedName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_ChunkFailureAbortsRun(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	ciphertext, err := v.Encrypt("plain-api-key")
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Titre", "Contenu très court.", nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).
		WillReturnRows(settingsRow(ciphertext))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusFailed, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE episodes SET status = 'failed', error_message = \$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fake := &fakeSynthesizer{maxBytes: 4500, err: errors.New("quota exceeded")}
	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		return fake, nil
	})

	store := &fakeStore{}
	g := New(v, store)

	_, err = g.Generate(context.Background(), 1, "")
	assert.ErrorContains(t, err, "chunk 1/1")
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, store.uploadedName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_ArticleNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	g := New(v, &fakeStore{})

	_, err := g.Generate(context.Background(), 99, "")
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateBatch_FailuresAreIndependent(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	ciphertext, err := v.Encrypt("plain-api-key")
	assert.NoError(t, err)

	// Concurrent pipelines interleave their queries.
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Titre", "Contenu court.", nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).
		WillReturnRows(settingsRow(ciphertext))
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusPending, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'completed'`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "google", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	fake := &fakeSynthesizer{maxBytes: 4500}
	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		return fake, nil
	})

	g := New(v, &fakeStore{})

	results := g.GenerateBatch(context.Background(), []int64{1, 2})

	assert.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].ArticleID)
	assert.True(t, results[0].Success)
	assert.Equal(t, int64(2), results[1].ArticleID)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerate_ProviderOverride(t *testing.T) {
	_, mock := test.NewMockDB(t)
	v := newTestVault(t)

	googleKey, err := v.Encrypt("google-key")
	assert.NoError(t, err)
	elevenKey, err := v.Encrypt("eleven-key")
	assert.NoError(t, err)

	voiceID := "voice-123"
	settings := sqlmock.NewRows(settingsColumns()).
		AddRow(1, "Podcast", "Description", "Auteur", nil, "google", "fr-FR-Neural2-A", voiceID, googleKey, elevenKey, time.Now(), time.Now())

	mock.ExpectQuery(`SELECT \* FROM articles WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleColumns()).
			AddRow(1, nil, "Titre", "Contenu.", nil, "text", true, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM settings LIMIT 1`).WillReturnRows(settings)
	mock.ExpectQuery(`SELECT \* FROM episodes WHERE article_id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(episodeColumns()).
			AddRow(10, 1, "", 0, 0, db.StatusPending, "google", nil, time.Now(), nil))
	mock.ExpectExec(`UPDATE episodes SET status = \$1 WHERE id = \$2`).
		WithArgs(db.StatusProcessing, int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SET status = 'completed'`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "elevenlabs", int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	fake := &fakeSynthesizer{maxBytes: 5000}
	overrideSynthesizer(t, func(provider, apiKey, voice string) (tts.Synthesizer, error) {
		assert.Equal(t, "elevenlabs", provider)
		assert.Equal(t, "eleven-key", apiKey)
		assert.Equal(t, voiceID, voice)
		return fake, nil
	})

	g := New(v, &fakeStore{})

	_, err = g.Generate(context.Background(), 1, "elevenlabs")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
