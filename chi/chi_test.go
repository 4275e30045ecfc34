package chi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samarthsinh2660/fluentify"
	"github.com/samarthsinh2660/fluentify/chi"
	"github.com/samarthsinh2660/fluentify/generate"
	fhttp "github.com/samarthsinh2660/fluentify/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var params = fluentify.Params{Language: "French", ExpectedDuration: "1 month", Expertise: "Intermediate"}

func newServer(t *testing.T, script chi.Script) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(chi.NewServer(script, chi.WithToken("tok")))
	t.Cleanup(srv.Close)
	return srv
}

func waitPhase(t *testing.T, g *generate.Generator, want fluentify.Phase) {
	t.Helper()
	require.Eventually(t, func() bool { return g.Phase() == want }, 3*time.Second, time.Millisecond,
		"phase never became %s (now %s)", want, g.Phase())
}

func TestServer_DemoScript(t *testing.T) {
	t.Parallel()
	srv := newServer(t, chi.DemoScript(7, 3, time.Millisecond))
	client := fhttp.New(srv.URL, fhttp.StaticToken("tok"))

	g := generate.New(client)
	defer g.Close()
	g.Start(params)
	waitPhase(t, g, fluentify.PhaseComplete)

	st := g.State()
	assert.Equal(t, 7, *st.CourseID)
	require.Len(t, st.Units, 3)
	for i, u := range st.Units {
		require.NotNil(t, u, "unit %d", i+1)
		assert.Len(t, u.Lessons, 2)
	}
	assert.Equal(t, "Unit 2", st.Units[1].Title)
	assert.Equal(t, "3/3", st.Progress)

	courses, err := client.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "French", courses[0].Language)
	assert.Equal(t, 3, courses[0].TotalUnits)

	course, err := client.Course(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "1 month", course.ExpectedDuration)

	_, err = client.Course(context.Background(), 8)
	assert.EqualError(t, err, "HTTP error! status: 404")
}

func TestServer_Truncated(t *testing.T) {
	t.Parallel()
	script := chi.DemoScript(1, 2, 0)
	script.TruncateAfter = 3
	srv := newServer(t, script)

	g := generate.New(fhttp.New(srv.URL, fhttp.StaticToken("tok")))
	defer g.Close()
	g.Start(params)
	waitPhase(t, g, fluentify.PhaseErrored)

	st := g.State()
	assert.Equal(t, fluentify.ErrConnectionLost.Error(), *st.Error)
	assert.Equal(t, 1, st.Generated())
	assert.False(t, st.IsGenerating)
}

func TestServer_Rejections(t *testing.T) {
	t.Parallel()

	t.Run("bad token", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, chi.DemoScript(1, 1, 0))
		g := generate.New(fhttp.New(srv.URL, fhttp.StaticToken("wrong")))
		defer g.Close()
		g.Start(params)
		waitPhase(t, g, fluentify.PhaseErrored)
		assert.Equal(t, "HTTP error! status: 401", *g.State().Error)
	})

	t.Run("scripted status", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, chi.Script{Status: http.StatusServiceUnavailable})
		g := generate.New(fhttp.New(srv.URL, fhttp.StaticToken("tok")))
		defer g.Close()
		g.Start(params)
		waitPhase(t, g, fluentify.PhaseErrored)
		assert.Equal(t, "HTTP error! status: 503", *g.State().Error)
	})

	t.Run("missing params", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, chi.DemoScript(1, 1, 0))
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/courses/generate-stream?language=French", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer tok")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "expected duration is required")
	})
}

func TestServer_MalformedFrames(t *testing.T) {
	t.Parallel()
	script := chi.Script{Frames: []chi.ScriptFrame{
		{Event: "course_created", Data: `{"courseId":3,"totalUnits":2}`},
		{Event: "unit_generated", Data: `{"unitNumber":1,"unit":`},
		{Event: "unit_generated", Data: `{"unitNumber":2,"unit":{"title":"Two"}}`},
		{Event: "course_complete", Data: `{"courseId":3}`},
	}}
	srv := newServer(t, script)
	g := generate.New(fhttp.New(srv.URL, fhttp.StaticToken("tok")))
	defer g.Close()
	g.Start(params)
	waitPhase(t, g, fluentify.PhaseComplete)

	st := g.State()
	assert.Nil(t, st.Units[0])
	assert.Equal(t, "Two", st.Units[1].Title)
	assert.Nil(t, st.Error)
}

func TestServer_CancelStopsStream(t *testing.T) {
	t.Parallel()
	srv := newServer(t, chi.DemoScript(1, 6, 50*time.Millisecond))
	g := generate.New(fhttp.New(srv.URL, fhttp.StaticToken("tok")))
	defer g.Close()

	g.Start(params)
	require.Eventually(t, func() bool { return g.State().CourseID != nil }, 3*time.Second, time.Millisecond)
	g.Reset()

	time.Sleep(150 * time.Millisecond)
	st := g.State()
	assert.Equal(t, fluentify.InitialState(), st)
	assert.Equal(t, fluentify.PhaseIdle, g.Phase())
}

func TestParseScript(t *testing.T) {
	t.Parallel()
	s, err := chi.ParseScript([]byte(`
delay: 20ms
truncate_after: 2
frames:
  - event: course_created
    data: '{"courseId":1,"totalUnits":1}'
  - event: error
    data: '{"message":"quota"}'
`))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, s.Delay)
	assert.Equal(t, 2, s.TruncateAfter)
	require.Len(t, s.Frames, 2)
	assert.Equal(t, "error", s.Frames[1].Event)

	_, err = chi.ParseScript([]byte("truncate_after: -1"))
	assert.Error(t, err)
	_, err = chi.ParseScript([]byte("frames: {"))
	assert.Error(t, err)
}
