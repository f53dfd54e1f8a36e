package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
)

type favoritesList struct {
	Items []dto.QuoteResponse `json:"items"`
}

func TestFavoritesHandler_Lifecycle(t *testing.T) {
	f := newHandlerFixture(t)
	const session = "sess-fav"

	empty := decode[favoritesList](t, f.do(http.MethodGet, "/api/v1/favorites", session, ""))
	assert.Empty(t, empty.Items)

	w := f.do(http.MethodPost, "/api/v1/favorites", session, `{"id":"q1","text":"I love this","author":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	added := decode[dto.QuoteResponse](t, w)
	assert.Equal(t, "q1", added.ID)
	assert.Equal(t, domain.MoodPositive, added.Analysis.Mood)
	assert.True(t, testNow.Equal(added.FetchedAt))

	again := f.do(http.MethodPost, "/api/v1/favorites", session, `{"id":"q1","text":"I love this","author":"A"}`)
	assert.Equal(t, http.StatusOK, again.Code)

	require.Equal(t, http.StatusCreated,
		f.do(http.MethodPost, "/api/v1/favorites", session, `{"id":"fallback-1","text":"Sad but true"}`).Code)

	list := decode[favoritesList](t, f.do(http.MethodGet, "/api/v1/favorites", session, ""))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "q1", list.Items[0].ID)
	assert.Equal(t, "fallback-1", list.Items[1].ID)
	assert.True(t, list.Items[1].Fallback)

	status := decode[dto.FavoriteStatusResponse](t, f.do(http.MethodGet, "/api/v1/favorites/q1", session, ""))
	assert.True(t, status.Favorite)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/favorites/q1", session, "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/v1/favorites/q1", session, "").Code)

	status = decode[dto.FavoriteStatusResponse](t, f.do(http.MethodGet, "/api/v1/favorites/q1", session, ""))
	assert.False(t, status.Favorite)

	other := decode[favoritesList](t, f.do(http.MethodGet, "/api/v1/favorites", "sess-other", ""))
	assert.Empty(t, other.Items)
}

func TestFavoritesHandler_AnalysisComesFromText(t *testing.T) {
	f := newHandlerFixture(t)

	body := `{"id":"q1","text":"so sad","analysis":{"mood":"positive","intensity":1}}`
	w := f.do(http.MethodPost, "/api/v1/favorites", "sess-1", body)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.MoodNegative, decode[dto.QuoteResponse](t, w).Analysis.Mood)
}

func TestFavoritesHandler_AddValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing id", body: `{"text":"x"}`, wantField: "id"},
		{name: "id with spaces", body: `{"id":"a b","text":"x"}`, wantField: "id"},
		{name: "blank text", body: `{"id":"q1","text":"   "}`, wantField: "text"},
		{name: "blank tag", body: `{"id":"q1","text":"x","tags":[" "]}`, wantField: "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			w := f.do(http.MethodPost, "/api/v1/favorites", "sess-1", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			resp := decode[dto.ErrorResponse](t, w)
			assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
			assert.Contains(t, resp.Error.Details, tt.wantField)
		})
	}
}
