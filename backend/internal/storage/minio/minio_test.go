package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/apexcharge/paddock/shared/config"
	"github.com/apexcharge/paddock/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Run with GO_TEST_INTEGRATION=1; needs Docker.
func startMinio(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		rootUser     = "root"
		rootPassword = "rootpass"
	)
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	st, err := New(ctx,
		config.Blobs{Driver: "minio", Endpoint: fmt.Sprintf("http://%s:%s", host, port.Port()), Bucket: "covers"},
		config.Minio{AccessKey: rootUser, SecretKey: rootPassword},
	)
	require.NoError(t, err)
	return st
}

func TestIntegration_SaveOpenDelete(t *testing.T) {
	st := startMinio(t)
	ctx := context.Background()

	n, err := st.Save(ctx, "p1", "image/png", bytes.NewReader([]byte("png bytes")))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	rc, info, err := st.Open(ctx, "p1")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))
	assert.Equal(t, "image/png", info.MimeType)

	blobs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "p1", blobs[0].Id)

	require.NoError(t, st.Delete(ctx, "p1"))
	_, _, err = st.Open(ctx, "p1")
	assert.True(t, errors.Is[*errors.NotFoundError](err))
}

func TestSaveRejectsPathIds(t *testing.T) {
	st := &Storage{}
	_, err := st.Save(context.Background(), "../x", "image/png", bytes.NewReader(nil))
	assert.True(t, errors.Is[*errors.ValidationError](err))
}
