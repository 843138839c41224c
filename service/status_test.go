package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"mc-gate-service/domain"
	"mc-gate-service/service"
)

type statusRepoMock struct {
	data      map[string]any
	err       error
	addresses []string
	ports     []string
	ueBody    []byte
	ueCode    int
	ueErr     error
}

func (m *statusRepoMock) Mcapi(_ context.Context, address string, port string) (map[string]any, error) {
	m.addresses = append(m.addresses, address)
	m.ports = append(m.ports, port)
	return m.data, m.err
}

func (m *statusRepoMock) Mcsrvstat(_ context.Context, address string) (map[string]any, error) {
	m.addresses = append(m.addresses, address)
	return m.data, m.err
}

func (m *statusRepoMock) UeStatus(context.Context) ([]byte, int, error) {
	return m.ueBody, m.ueCode, m.ueErr
}

func TestSanitizeAddress(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.EqualValues("play.example.net", service.SanitizeAddress("play.example.net"))
	require.EqualValues("play.example.net", service.SanitizeAddress("https://play.example.net/some/path"))
	require.EqualValues("play.example.net:25565", service.SanitizeAddress("http://play.example.net:25565"))
	require.EqualValues("ftp:", service.SanitizeAddress("ftp://play.example.net"))
}

func TestStatusMcapiReshaping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		data       map[string]any
		statusCode int
		body       any
	}{
		{
			name:       "success",
			data:       map[string]any{"status": "success", "online": true},
			statusCode: http.StatusOK,
			body:       map[string]any{"status": "success", "online": true},
		},
		{
			name:       "error",
			data:       map[string]any{"status": "error", "error": "timeout"},
			statusCode: http.StatusInternalServerError,
			body:       domain.StatusError{Error: "error"},
		},
		{
			name:       "no status",
			data:       map[string]any{"online": true},
			statusCode: http.StatusInternalServerError,
			body:       domain.StatusError{Error: "No status field in response"},
		},
		{
			name:       "unknown status",
			data:       map[string]any{"status": "pending"},
			statusCode: http.StatusNotFound,
			body:       domain.StatusError{Error: "Unknown status code"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			require := require.New(t)

			repo := &statusRepoMock{data: c.data}
			reply := service.NewStatus(repo, nil, time.Second).Mcapi(context.Background(), "https://play.example.net/x")
			require.EqualValues(c.statusCode, reply.StatusCode)
			require.EqualValues(c.body, reply.Body)
			require.EqualValues([]string{"play.example.net"}, repo.addresses)
		})
	}
}

func TestStatusTransportFailure(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{err: errors.New("connection refused")}
	status := service.NewStatus(repo, nil, time.Second)

	reply := status.Mcapi(context.Background(), "play.example.net")
	require.EqualValues(http.StatusInternalServerError, reply.StatusCode)
	require.EqualValues(domain.StatusError{Error: "connection refused"}, reply.Body)

	reply = status.Mcsrvstat(context.Background(), "play.example.net")
	require.EqualValues(http.StatusInternalServerError, reply.StatusCode)
}

func TestStatusMcapiDelayed(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{data: map[string]any{"status": "success", "duration": "150000000"}}
	status := service.NewStatus(repo, nil, time.Second)

	start := time.Now()
	reply := status.McapiDelayed(context.Background(), "play.example.net", "25566")
	require.GreaterOrEqual(time.Since(start), 150*time.Millisecond)
	require.EqualValues(http.StatusOK, reply.StatusCode)
	require.EqualValues([]string{"25566"}, repo.ports)
}

func TestStatusMcapiDelayedIsCapped(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{data: map[string]any{"status": "success", "duration": float64(time.Hour)}}
	status := service.NewStatus(repo, nil, 50*time.Millisecond)

	start := time.Now()
	reply := status.McapiDelayed(context.Background(), "play.example.net", "")
	require.Less(time.Since(start), time.Second)
	require.EqualValues(http.StatusOK, reply.StatusCode)
}

func TestStatusMcapiDelayedIgnoresBadDuration(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{data: map[string]any{"status": "error", "duration": "soon"}}
	reply := service.NewStatus(repo, nil, time.Minute).McapiDelayed(context.Background(), "play.example.net", "")
	require.EqualValues(http.StatusInternalServerError, reply.StatusCode)
}

func TestStatusMcsrvstatReshaping(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{data: map[string]any{"online": true, "players": map[string]any{"online": 3.0}}}
	reply := service.NewStatus(repo, nil, time.Second).Mcsrvstat(context.Background(), "play.example.net")
	require.EqualValues(http.StatusOK, reply.StatusCode)
	require.EqualValues(repo.data, reply.Body)

	repo = &statusRepoMock{data: map[string]any{"online": false, "ip": "127.0.0.1"}}
	reply = service.NewStatus(repo, nil, time.Second).Mcsrvstat(context.Background(), "play.example.net")
	require.EqualValues(http.StatusServiceUnavailable, reply.StatusCode)
	require.EqualValues(domain.OfflineStatus{Online: false}, reply.Body)

	repo = &statusRepoMock{data: map[string]any{"ip": "127.0.0.1"}}
	reply = service.NewStatus(repo, nil, time.Second).Mcsrvstat(context.Background(), "play.example.net")
	require.EqualValues(http.StatusBadRequest, reply.StatusCode)
	require.EqualValues(domain.StatusError{Error: "No status field in response"}, reply.Body)
}

func TestStatusMcsrvstatFalsyOnline(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for _, online := range []any{nil, 0.0, "", []any{}} {
		repo := &statusRepoMock{data: map[string]any{"online": online}}
		reply := service.NewStatus(repo, nil, time.Second).Mcsrvstat(context.Background(), "play.example.net")
		require.EqualValues(http.StatusServiceUnavailable, reply.StatusCode, online)
		require.EqualValues(domain.OfflineStatus{Online: false}, reply.Body)
	}

	repo := &statusRepoMock{data: map[string]any{"online": "yes"}}
	reply := service.NewStatus(repo, nil, time.Second).Mcsrvstat(context.Background(), "play.example.net")
	require.EqualValues(http.StatusOK, reply.StatusCode)
}

type minecraftRepoMock struct {
	status    *domain.MinecraftStatus
	err       error
	addresses []string
}

func (m *minecraftRepoMock) Status(_ context.Context, address string) (*domain.MinecraftStatus, error) {
	m.addresses = append(m.addresses, address)
	return m.status, m.err
}

func TestStatusMinecraft(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	expected := &domain.MinecraftStatus{
		Online:  true,
		Players: domain.MinecraftPlayers{Online: 2, Max: 20},
		Version: "1.20.4",
		Motd:    "hello",
	}
	minecraft := &minecraftRepoMock{status: expected}
	reply := service.NewStatus(nil, minecraft, time.Second).Minecraft(context.Background(), "https://play.example.net:25566/x")
	require.EqualValues(http.StatusOK, reply.StatusCode)
	require.EqualValues(expected, reply.Body)
	require.EqualValues([]string{"play.example.net:25566"}, minecraft.addresses)

	minecraft = &minecraftRepoMock{err: errors.New("connection refused")}
	reply = service.NewStatus(nil, minecraft, time.Second).Minecraft(context.Background(), "play.example.net")
	require.EqualValues(http.StatusInternalServerError, reply.StatusCode)
	require.EqualValues(domain.StatusError{Error: "connection refused"}, reply.Body)
}

func TestStatusUeStatus(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	repo := &statusRepoMock{ueBody: []byte(`{"online":true}`), ueCode: http.StatusOK}
	body, err := service.NewStatus(repo, nil, time.Second).UeStatus(context.Background())
	require.NoError(err)
	require.JSONEq(`{"online":true}`, string(body))

	repo = &statusRepoMock{ueBody: []byte(`{"error":"x"}`), ueCode: http.StatusInternalServerError}
	_, err = service.NewStatus(repo, nil, time.Second).UeStatus(context.Background())
	require.Error(err)

	repo = &statusRepoMock{ueBody: []byte(`oops`), ueCode: http.StatusOK}
	_, err = service.NewStatus(repo, nil, time.Second).UeStatus(context.Background())
	require.Error(err)
}
