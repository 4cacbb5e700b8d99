package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/api/shared"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/domain/achievement"
	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/service/progress"
	"github.com/kofadam/asahi-x-family/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter mounts the handler the way the server does, with the
// authenticated profile id injected directly into the request context.
func newTestRouter(t *testing.T, svc progress.ProgressService, profileID uuid.UUID) http.Handler {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	h := NewProgressHandler(svc, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if profileID != uuid.Nil {
				req = req.WithContext(shared.WithProfileID(req.Context(), profileID))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestNewProgressHandler_Panics(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	assert.Panics(t, func() { NewProgressHandler(nil, log) })
	assert.Panics(t, func() { NewProgressHandler(&progress.MockProgressService{}, nil) })
}

func TestProgressHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &progress.MockProgressService{}, uuid.Nil)

	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/profile", ""},
		{http.MethodGet, "/reviews/due", ""},
		{http.MethodPost, "/reviews/" + uuid.NewString() + "/answer", `{"rating":"good"}`},
		{http.MethodGet, "/lessons", ""},
		{http.MethodGet, "/lessons/next", ""},
		{http.MethodPost, "/lessons/lesson-001/complete", `{"accuracy":1}`},
		{http.MethodPost, "/practice", `{"kind":"scenario"}`},
		{http.MethodPut, "/travel-mode", `{"active":true}`},
		{http.MethodPut, "/preferences", `{}`},
		{http.MethodGet, "/achievements", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := doRequest(t, router, rt.method, rt.path, rt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestProgressHandler_GetProfile(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	svc := &progress.MockProgressService{
		ProfileFn: func(ctx context.Context, id uuid.UUID) (*progress.ProfileView, error) {
			return &progress.ProfileView{
				ID:      id,
				TotalXP: 150,
				Level:   achievement.LevelProgress{Level: 2, Title: "Hiragana Apprentice"},
				Streak:  progress.StreakView{Current: 1, Longest: 1, Active: true},
			}, nil
		},
	}

	rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodGet, "/profile", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got progress.ProfileView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, profileID, got.ID)
	assert.Equal(t, 150, got.TotalXP)
	assert.Equal(t, 2, got.Level.Level)
	assert.True(t, got.Streak.Active)
}

func TestProgressHandler_CompleteLesson(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	tests := []struct {
		name           string
		lessonID       string
		body           string
		serviceErr     error
		expectedStatus int
		expectCall     bool
		errorContains  string
	}{
		{
			name:           "success",
			lessonID:       "lesson-001",
			body:           `{"accuracy":1}`,
			expectedStatus: http.StatusOK,
			expectCall:     true,
		},
		{
			name:           "zero accuracy is accepted",
			lessonID:       "lesson-001",
			body:           `{"accuracy":0}`,
			expectedStatus: http.StatusOK,
			expectCall:     true,
		},
		{
			name:           "missing accuracy",
			lessonID:       "lesson-001",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			errorContains:  "Accuracy",
		},
		{
			name:           "accuracy above one",
			lessonID:       "lesson-001",
			body:           `{"accuracy":1.2}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			lessonID:       "lesson-001",
			body:           `{"accuracy":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "locked lesson",
			lessonID:       "lesson-004",
			body:           `{"accuracy":0.8}`,
			serviceErr:     progress.NewServiceError("complete_lesson", "update rejected", engine.ErrLessonLocked),
			expectedStatus: http.StatusForbidden,
			expectCall:     true,
			errorContains:  "Lesson is locked",
		},
		{
			name:           "unknown lesson",
			lessonID:       "lesson-999",
			body:           `{"accuracy":0.8}`,
			serviceErr:     engine.ErrLessonNotFound,
			expectedStatus: http.StatusNotFound,
			expectCall:     true,
		},
		{
			name:     "store unavailable",
			lessonID: "lesson-001",
			body:     `{"accuracy":0.8}`,
			serviceErr: progress.NewServiceError("complete_lesson", "failed to save progress",
				fmt.Errorf("%w: %w", progress.ErrStoreUnavailable, errors.New("dial tcp 10.0.0.5:5432"))),
			expectedStatus: http.StatusServiceUnavailable,
			expectCall:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var called bool
			svc := &progress.MockProgressService{
				CompleteLessonFn: func(
					ctx context.Context,
					id uuid.UUID,
					lessonID string,
					accuracy float64,
				) (*progress.Outcome, error) {
					called = true
					assert.Equal(t, profileID, id)
					assert.Equal(t, tt.lessonID, lessonID)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &progress.Outcome{
						Result: engine.Result{
							XPGained: 150,
							Events: []engine.Event{{
								Type:    engine.EventLevelUp,
								LevelUp: &achievement.LevelUp{OldLevel: 1, NewLevel: 2, LevelsGained: 1},
							}},
						},
						Profile: progress.ProfileView{ID: id, TotalXP: 150},
					}, nil
				},
			}

			rec := doRequest(t, newTestRouter(t, svc, profileID),
				http.MethodPost, "/lessons/"+tt.lessonID+"/complete", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectCall, called)
			if tt.expectedStatus != http.StatusOK {
				resp := decodeError(t, rec)
				assert.Contains(t, resp.Error, tt.errorContains)
				assert.NotContains(t, resp.Error, "10.0.0.5")
				return
			}

			var out progress.Outcome
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
			assert.Equal(t, 150, out.XPGained)
			require.Len(t, out.Events, 1)
			assert.Equal(t, engine.EventLevelUp, out.Events[0].Type)
		})
	}
}

func TestProgressHandler_SubmitReview(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	itemID := uuid.New()

	tests := []struct {
		name           string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedRating domain.Rating
	}{
		{
			name:           "good",
			path:           "/reviews/" + itemID.String() + "/answer",
			body:           `{"rating":"good"}`,
			expectedStatus: http.StatusOK,
			expectedRating: domain.RatingGood,
		},
		{
			name:           "again",
			path:           "/reviews/" + itemID.String() + "/answer",
			body:           `{"rating":"again"}`,
			expectedStatus: http.StatusOK,
			expectedRating: domain.RatingAgain,
		},
		{
			name:           "rating outside enum",
			path:           "/reviews/" + itemID.String() + "/answer",
			body:           `{"rating":"perfect"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid item id",
			path:           "/reviews/not-a-uuid/answer",
			body:           `{"rating":"good"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown item",
			path:           "/reviews/" + itemID.String() + "/answer",
			body:           `{"rating":"hard"}`,
			serviceErr:     progress.NewServiceError("submit_review", "update rejected", engine.ErrItemNotFound),
			expectedStatus: http.StatusNotFound,
			expectedRating: domain.RatingHard,
		},
		{
			name:           "concurrent modification",
			path:           "/reviews/" + itemID.String() + "/answer",
			body:           `{"rating":"easy"}`,
			serviceErr:     store.ErrConflict,
			expectedStatus: http.StatusConflict,
			expectedRating: domain.RatingEasy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotRating domain.Rating
			svc := &progress.MockProgressService{
				SubmitReviewFn: func(
					ctx context.Context,
					pid, iid uuid.UUID,
					rating domain.Rating,
				) (*progress.Outcome, error) {
					gotRating = rating
					assert.Equal(t, profileID, pid)
					assert.Equal(t, itemID, iid)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &progress.Outcome{Result: engine.Result{XPGained: 10}}, nil
				},
			}

			rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedRating, gotRating)
		})
	}
}

func TestProgressHandler_GetDueReviews(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	t.Run("lists items", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{
			DueReviewsFn: func(ctx context.Context, id uuid.UUID) ([]progress.DueReview, error) {
				return []progress.DueReview{
					{ID: uuid.New(), ContentRef: "lesson-001", Title: "Hiragana Basics"},
					{ID: uuid.New(), ContentRef: "lesson-002"},
				}, nil
			},
		}

		rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodGet, "/reviews/due", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DueReviewsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, "lesson-001", resp.Items[0].ContentRef)
	})

	t.Run("nothing due is an empty list", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{}
		rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodGet, "/reviews/due", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[],"count":0}`, rec.Body.String())
	})
}

func TestProgressHandler_RecordPractice(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expected       engine.Practice
	}{
		{
			name:           "speed drill",
			body:           `{"kind":"speed_drill","seconds":42.5}`,
			expectedStatus: http.StatusOK,
			expected:       engine.Practice{Kind: engine.PracticeSpeedDrill, Seconds: 42.5},
		},
		{
			name:           "anime reading",
			body:           `{"kind":"anime_reading","count":5}`,
			expectedStatus: http.StatusOK,
			expected:       engine.Practice{Kind: engine.PracticeAnimeReading, Count: 5},
		},
		{
			name:           "unknown kind",
			body:           `{"kind":"karaoke"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative count",
			body:           `{"kind":"anime_reading","count":-1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "count above limit",
			body:           `{"kind":"anime_reading","count":10001}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "engine rejects session",
			body:           `{"kind":"speed_drill"}`,
			serviceErr:     fmt.Errorf("%w: speed drill needs a positive time", engine.ErrInvalidPractice),
			expectedStatus: http.StatusBadRequest,
			expected:       engine.Practice{Kind: engine.PracticeSpeedDrill},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got engine.Practice
			svc := &progress.MockProgressService{
				RecordPracticeFn: func(
					ctx context.Context,
					id uuid.UUID,
					practice engine.Practice,
				) (*progress.Outcome, error) {
					got = practice
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &progress.Outcome{Result: engine.Result{XPGained: 25}}, nil
				},
			}

			rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodPost, "/practice", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestProgressHandler_SetTravelMode(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	var got *bool
	svc := &progress.MockProgressService{
		SetTravelModeFn: func(ctx context.Context, id uuid.UUID, active bool) (*progress.ProfileView, error) {
			got = &active
			return &progress.ProfileView{ID: id, Streak: progress.StreakView{TravelModeActive: active}}, nil
		},
	}
	router := newTestRouter(t, svc, profileID)

	rec := doRequest(t, router, http.MethodPut, "/travel-mode", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, got, "missing flag must not reach the service")

	rec = doRequest(t, router, http.MethodPut, "/travel-mode", `{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.False(t, *got)

	rec = doRequest(t, router, http.MethodPut, "/travel-mode", `{"active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view progress.ProfileView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.True(t, view.Streak.TravelModeActive)
}

func TestProgressHandler_UpdatePreferences(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectCall     bool
	}{
		{
			name: "valid",
			body: `{"daily_goal":20,"notifications_enabled":true,"theme":"dark",` +
				`"daily_reminder_time":"19:30","time_zone":"Asia/Tokyo"}`,
			expectedStatus: http.StatusOK,
			expectCall:     true,
		},
		{
			name:           "unknown theme",
			body:           `{"daily_goal":20,"theme":"neon","daily_reminder_time":"19:30","time_zone":"UTC"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad reminder time",
			body:           `{"daily_goal":20,"theme":"auto","daily_reminder_time":"7pm","time_zone":"UTC"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown time zone",
			body:           `{"daily_goal":20,"theme":"auto","daily_reminder_time":"07:00","time_zone":"Mars/Olympus"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got domain.Preferences
			var called bool
			svc := &progress.MockProgressService{
				UpdatePreferencesFn: func(
					ctx context.Context,
					id uuid.UUID,
					prefs domain.Preferences,
				) (*progress.ProfileView, error) {
					called = true
					got = prefs
					return &progress.ProfileView{ID: id, Preferences: prefs}, nil
				},
			}

			rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodPut, "/preferences", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectCall, called)
			if tt.expectCall {
				assert.Equal(t, domain.ThemeDark, got.Theme)
				assert.Equal(t, "Asia/Tokyo", got.TimeZone)
				assert.True(t, got.NotificationsEnabled)
			}
		})
	}
}

func TestProgressHandler_Lessons(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	svc := &progress.MockProgressService{
		LessonsFn: func(ctx context.Context, id uuid.UUID) (*progress.LessonsView, error) {
			return &progress.LessonsView{CulturalCompetency: 75}, nil
		},
		NextLessonFn: func(ctx context.Context, id uuid.UUID) (*progress.NextLessonView, error) {
			return &progress.NextLessonView{
				Lesson: &progression.Lesson{ID: "lesson-002", Title: "Hiragana Words", XPReward: 50},
			}, nil
		},
	}
	router := newTestRouter(t, svc, profileID)

	rec := doRequest(t, router, http.MethodGet, "/lessons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lessons progress.LessonsView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lessons))
	assert.Equal(t, 75, lessons.CulturalCompetency)

	rec = doRequest(t, router, http.MethodGet, "/lessons/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var next progress.NextLessonView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&next))
	require.NotNil(t, next.Lesson)
	assert.Equal(t, "lesson-002", next.Lesson.ID)
	assert.False(t, next.CaughtUp)
}

func TestProgressHandler_GetAchievements(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()

	t.Run("lists definitions", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{
			AchievementsFn: func(ctx context.Context, id uuid.UUID) ([]progress.AchievementView, error) {
				return []progress.AchievementView{{
					AchievementDefinition: domain.AchievementDefinition{ID: "first-lesson", Title: "First Steps"},
					Earned:                true,
				}}, nil
			},
		}

		rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodGet, "/achievements", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var views []progress.AchievementView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
		require.Len(t, views, 1)
		assert.Equal(t, "first-lesson", views[0].ID)
		assert.True(t, views[0].Earned)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{
			AchievementsFn: func(ctx context.Context, id uuid.UUID) ([]progress.AchievementView, error) {
				return nil, fmt.Errorf("%w: timeout", progress.ErrStoreUnavailable)
			},
		}

		rec := doRequest(t, newTestRouter(t, svc, profileID), http.MethodGet, "/achievements", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Progress is temporarily unavailable", decodeError(t, rec).Error)
	})
}
