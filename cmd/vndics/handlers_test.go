package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/mocks"
	"github.com/darkclainer/vndic/pkg/notes"
	"github.com/darkclainer/vndic/pkg/parser"
	"github.com/darkclainer/vndic/pkg/querier"
)

func newTestServer(t *testing.T, q *mocks.Querier) (*Server, *notes.Storage) {
	storage, err := notes.Open(&notes.Config{InMemory: true})
	require.NoError(t, err)
	server, err := newServer(zap.NewNop(), &Config{}, q, storage)
	require.NoError(t, err)
	return server, storage
}

func request(server *Server, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.Handler.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestHandleLookup(t *testing.T) {
	entry := &parser.DictionaryEntry{
		Pinyin:      "nǐ",
		Definitions: []string{"anh"},
		Sentences:   []parser.SentencePair{},
	}
	testCases := map[string]struct {
		Target     string
		Entry      *parser.DictionaryEntry
		Err        error
		Code       int
		Status     ResponseStatus
		ExpectCall bool
	}{
		"ok": {
			Target:     "/lookup?q=%E4%BD%A0",
			Entry:      entry,
			Code:       http.StatusOK,
			Status:     ResponseOK,
			ExpectCall: true,
		},
		"no data": {
			Target:     "/lookup?q=%E4%BD%A0",
			Entry:      &parser.DictionaryEntry{},
			Code:       http.StatusOK,
			Status:     ResponseNoData,
			ExpectCall: true,
		},
		"http error": {
			Target:     "/lookup?q=%E4%BD%A0",
			Err:        &querier.StatusError{Code: 503},
			Code:       http.StatusOK,
			Status:     ResponseHTTPError,
			ExpectCall: true,
		},
		"network error": {
			Target:     "/lookup?q=%E4%BD%A0",
			Err:        &querier.NetworkError{Err: assert.AnError},
			Code:       http.StatusOK,
			Status:     ResponseNetworkError,
			ExpectCall: true,
		},
		"empty query": {
			Target: "/lookup",
			Code:   http.StatusBadRequest,
			Status: ResponseBadRequest,
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			q := &mocks.Querier{}
			if tc.ExpectCall {
				q.On("Lookup", mock.Anything, "你").Return(tc.Entry, tc.Err)
			}
			server, storage := newTestServer(t, q)
			defer storage.Close()

			recorder := request(server, http.MethodGet, tc.Target, "")
			q.AssertExpectations(t)
			require.Equal(t, tc.Code, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			var response ResponseLookup
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.Equal(t, tc.Status, response.Status)
			if tc.Status == ResponseOK {
				assert.Equal(t, entry, response.Entry)
			}
			if tc.Err != nil {
				assert.Equal(t, tc.Err.Error(), response.Error)
			}
		})
	}
}

func TestHandleNotes(t *testing.T) {
	server, storage := newTestServer(t, &mocks.Querier{})
	defer storage.Close()

	recorder := request(server, http.MethodPost, "/notes",
		`{"id":"7","model":["Chinese","Pinyin"],"fields":["你"]}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = request(server, http.MethodGet, "/notes?id=7", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var response ResponseNote
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, &notes.Note{
		ID:     "7",
		Model:  []string{"Chinese", "Pinyin"},
		Fields: []string{"你", ""},
	}, response.Note)

	recorder = request(server, http.MethodGet, "/notes?id=8", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = request(server, http.MethodPost, "/notes", `{"model":["Chinese"]}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = request(server, http.MethodPost, "/notes", `{`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = request(server, http.MethodDelete, "/notes?id=7", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleFill(t *testing.T) {
	q := &mocks.Querier{}
	q.On("Lookup", mock.Anything, "你").Return(&parser.DictionaryEntry{Pinyin: "nǐ"}, nil)
	server, storage := newTestServer(t, q)
	defer storage.Close()
	for _, id := range []string{"1", "2"} {
		note := notes.NewNote(id, "Chinese", "Pinyin")
		require.NoError(t, note.SetField("Chinese", "你"))
		require.NoError(t, storage.PutNote(note))
	}

	recorder := request(server, http.MethodPost, "/fill?id=2", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var response ResponseFill
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Reports, 1)
	assert.Equal(t, "2", response.Reports[0].NoteID)
	assert.Equal(t, []string{"Pinyin"}, response.Reports[0].Filled)

	recorder = request(server, http.MethodPost, "/fill", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	response = ResponseFill{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.Reports, 2)
	assert.Equal(t, "1", response.Reports[0].NoteID)
	assert.Equal(t, "2", response.Reports[1].NoteID)

	pinyin, err := storage.GetField("1", "Pinyin")
	require.NoError(t, err)
	assert.Equal(t, "nǐ", pinyin)

	recorder = request(server, http.MethodGet, "/fill", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleMedia(t *testing.T) {
	server, storage := newTestServer(t, &mocks.Querier{})
	defer storage.Close()
	name, err := storage.Store([]byte("ID3"), "a.mp3")
	require.NoError(t, err)

	recorder := request(server, http.MethodGet, "/media?name="+name, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "audio/mpeg", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "ID3", recorder.Body.String())

	recorder = request(server, http.MethodGet, "/media?name=b.mp3", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
