package echoapi

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo/core/announcement"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
	"github.com/trezcool/masomo/tests"
)

func TestAnnouncementAPI(t *testing.T) {
	env := setup(t)
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	freezeTime(t, now)

	older := testutil.CreateAnnouncement(t, env.db, "Older", "Old news", now.Add(-48*time.Hour))
	newer := testutil.CreateAnnouncement(t, env.db, "Newer", "Fresh news", now.Add(-time.Hour))
	newerPath := "/api/announcements/" + strconv.FormatInt(newer.ID, 10)

	env.run(t, []httpTest{
		{
			name:     "list newest first",
			method:   http.MethodGet,
			path:     "/api/announcements",
			token:    env.teacherToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []announcement.DTO{announcement.ToDTO(newer), announcement.ToDTO(older)}),
		},
		{
			name:     "retrieve",
			method:   http.MethodGet,
			path:     newerPath,
			token:    env.teacherToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, announcement.ToDTO(newer)),
		},
		{
			name:     "retrieve missing",
			method:   http.MethodGet,
			path:     "/api/announcements/999",
			token:    env.teacherToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "retrieve non numeric id",
			method:   http.MethodGet,
			path:     "/api/announcements/abc",
			token:    env.teacherToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "create missing fields",
			method:   http.MethodPost,
			path:     "/api/announcements",
			body:     []byte(`{"body": "no title"}`),
			token:    env.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
		{
			name:     "create malformed body",
			method:   http.MethodPost,
			path:     "/api/announcements",
			body:     []byte(`{"title": `),
			token:    env.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid request body"}),
		},
		{
			name:     "update id mismatch",
			method:   http.MethodPut,
			path:     newerPath,
			body:     []byte(`{"id": 999, "title": "T", "body": "B"}`),
			token:    env.adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "id mismatch"}),
			check:    func(t *testing.T) {
				got, err := sqlxstore.Find[announcement.Announcement](ctxBg, env.db.NewContext(), newer.ID)
				require.NoError(t, err)
				assert.Equal(t, newer.Title, got.Title)
				assert.Equal(t, newer.Body, got.Body)
			},
		},
		{
			name:     "update missing",
			method:   http.MethodPut,
			path:     "/api/announcements/999",
			body:     []byte(`{"id": 999, "title": "T", "body": "B"}`),
			token:    env.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "delete missing",
			method:   http.MethodDelete,
			path:     "/api/announcements/999",
			token:    env.adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	})

	t.Run("create", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/announcements", env.superAdminToken,
			[]byte(`{"id": 77, "title": "Exams", "body": "Exams start on Monday", "posted_at": "2000-01-01T00:00:00Z"}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		want := announcement.DTO{ID: 3, Title: "Exams", Body: "Exams start on Monday", PostedAt: now}
		checkCodeAndData(t, httpTest{wantCode: http.StatusCreated, wantData: marchallObj(t, want)}, rec)
		assert.Equal(t, "/api/announcements/3", rec.Header().Get("Location"))

		// listing now starts with the new announcement
		rec = env.do(http.MethodGet, "/api/announcements", env.teacherToken)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []announcement.DTO{want, announcement.ToDTO(newer), announcement.ToDTO(older)}),
		}, rec)
	})

	t.Run("update", func(t *testing.T) {
		body := []byte(`{"id": ` + strconv.FormatInt(older.ID, 10) + `, "title": "Edited", "body": "Edited body", "posted_at": "2000-01-01T00:00:00Z"}`)
		rec := env.do(http.MethodPut, "/api/announcements/"+strconv.FormatInt(older.ID, 10), env.adminToken, body)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, rec)

		got, err := sqlxstore.Find[announcement.Announcement](ctxBg, env.db.NewContext(), older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
		assert.Equal(t, "Edited body", got.Body)
		// server assigned fields are never overwritten
		assert.True(t, older.PostedAt.Equal(got.PostedAt))
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(http.MethodDelete, newerPath, env.adminToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, rec)

		rec = env.do(http.MethodGet, newerPath, env.adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAnnouncementListSamePostedAt(t *testing.T) {
	env := setup(t)
	postedAt := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	first := testutil.CreateAnnouncement(t, env.db, "First", "Body", postedAt)
	second := testutil.CreateAnnouncement(t, env.db, "Second", "Body", postedAt)
	third := testutil.CreateAnnouncement(t, env.db, "Third", "Body", postedAt)

	env.run(t, []httpTest{
		{
			name:     "latest created first",
			method:   http.MethodGet,
			path:     "/api/announcements",
			token:    env.teacherToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []announcement.DTO{
				announcement.ToDTO(third), announcement.ToDTO(second), announcement.ToDTO(first),
			}),
		},
	})
}
