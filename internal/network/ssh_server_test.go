package network

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

type staticSource struct{}

func (staticSource) Watch(ctx context.Context) (<-chan ipc.Snapshot, error) {
	ch := make(chan ipc.Snapshot, 1)
	ch <- ipc.NewSnapshot()
	return ch, nil
}

func (staticSource) Submit(ipc.Request) error { return nil }

func useConfig(t *testing.T, remote config.RemoteConfig) {
	t.Helper()
	config.SetConfigPath(filepath.Join(t.TempDir(), "waydock.toml"))
	config.Set(&config.Config{Remote: remote})
	t.Cleanup(func() {
		config.Set(nil)
		config.SetConfigPath("")
	})
}

func newSigner(t *testing.T) gossh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := gossh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		remote   config.RemoteConfig
		approver func(addr, fingerprint string) bool
		want     bool
	}{
		{
			name:   "whitelisted key",
			key:    "SHA256:known",
			remote: config.RemoteConfig{WhitelistOnly: true, Whitelist: []string{"SHA256:known"}},
			want:   true,
		},
		{
			name:   "open mode accepts any key",
			key:    "SHA256:other",
			remote: config.RemoteConfig{WhitelistOnly: false},
			want:   true,
		},
		{
			name:   "unknown key without approver",
			key:    "SHA256:other",
			remote: config.RemoteConfig{WhitelistOnly: true},
			want:   false,
		},
		{
			name:     "unknown key denied by approver",
			key:      "SHA256:other",
			remote:   config.RemoteConfig{WhitelistOnly: true},
			approver: func(addr, fingerprint string) bool { return false },
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, tt.remote)
			server := NewSSHServer("127.0.0.1:0", "", staticSource{})
			server.OnAuthRequest = tt.approver
			assert.Equal(t, tt.want, server.authorize("10.0.0.2:5000", tt.key))
		})
	}
}

func TestAuthorizeApprovalWhitelists(t *testing.T) {
	useConfig(t, config.RemoteConfig{WhitelistOnly: true})

	var asked []string
	server := NewSSHServer("127.0.0.1:0", "", staticSource{})
	server.OnAuthRequest = func(addr, fingerprint string) bool {
		asked = append(asked, fingerprint)
		return true
	}

	assert.True(t, server.authorize("10.0.0.2:5000", "SHA256:new"))
	assert.True(t, config.IsWhitelisted("SHA256:new"))

	// The second attempt no longer needs approval.
	assert.True(t, server.authorize("10.0.0.2:5001", "SHA256:new"))
	assert.Equal(t, []string{"SHA256:new"}, asked)
}

func TestSSHServerSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping SSH server test in short mode")
	}

	allowed := newSigner(t)
	stranger := newSigner(t)
	useConfig(t, config.RemoteConfig{
		WhitelistOnly: true,
		Whitelist:     []string{gossh.FingerprintSHA256(allowed.PublicKey())},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := NewSSHServer("127.0.0.1:0", filepath.Join(t.TempDir(), "host_key"), staticSource{})
	require.NoError(t, server.Start(ctx))
	defer server.Stop()

	dial := func(signer gossh.Signer) (*gossh.Client, error) {
		return gossh.Dial("tcp", server.Addr(), &gossh.ClientConfig{
			User:            "tester",
			Auth:            []gossh.AuthMethod{gossh.PublicKeys(signer)},
			HostKeyCallback: gossh.InsecureIgnoreHostKey(),
			Timeout:         2 * time.Second,
		})
	}

	t.Run("unknown key is rejected", func(t *testing.T) {
		_, err := dial(stranger)
		assert.Error(t, err)
	})

	t.Run("sessions need a terminal", func(t *testing.T) {
		client, err := dial(allowed)
		require.NoError(t, err)
		defer client.Close()

		session, err := client.NewSession()
		require.NoError(t, err)
		defer session.Close()

		out, err := session.CombinedOutput("")
		assert.Error(t, err, "a session without a PTY exits non-zero")
		assert.Contains(t, string(out), "PTY")

		require.Eventually(t, func() bool { return server.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
	})
}
