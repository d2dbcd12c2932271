package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/idkey"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/utils"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd(versionInfo{version: "1.2.3", commit: "abc", built: "today"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "harmony-cli Version: 1.2.3")
	assert.Contains(t, out, "Git Commit: abc")
}

func TestKeysGenerate(t *testing.T) {
	out, err := run(t, "keys", "generate", "--count", "2")
	require.NoError(t, err)

	var pairs []idkey.KeyPair
	require.NoError(t, codec.JSON.UnmarshalFromString(out, &pairs))
	require.Len(t, pairs, 2)
	for _, kp := range pairs {
		pub, err := idkey.PublicKeyFromPrivate(kp.PrivateKey)
		require.NoError(t, err)
		assert.Equal(t, kp.PublicKey, pub)
	}

	_, err = run(t, "keys", "generate", "--count", "0")
	assert.Error(t, err)
}

func TestKeysPublicAndValidate(t *testing.T) {
	kp, err := idkey.GenerateKeyPair()
	require.NoError(t, err)

	out, err := run(t, "keys", "public", kp.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey+"\n", out)

	out, err = run(t, "keys", "validate", kp.PublicKey, "idpub-nope")
	assert.Error(t, err)
	assert.Contains(t, out, kp.PublicKey+"\tvalid")
	assert.Contains(t, out, "idpub-nope\tinvalid")
}

func TestHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	out, err := run(t, "hash", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")

	want, err := utils.HashBytesHex([]byte("abc"), utils.HashBLAKE3)
	require.NoError(t, err)
	out, err = run(t, "hash", path, "--type", "blake3")
	require.NoError(t, err)
	assert.Contains(t, out, want)

	_, err = run(t, "hash", path, "--type", "md5")
	assert.Error(t, err)
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, config.Save(&config.Config{
		BaseURL: "https://file.example.com",
		AppID:   "file-id",
		AppKey:  "file-key-secret",
	}, path))

	t.Setenv("HARMONY_APP_ID", "env-id")
	out, err := run(t, "config", "show", "--config", path, "--base-url", "https://flag.example.com")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, codec.JSON.UnmarshalFromString(out, &shown))
	assert.Equal(t, "https://flag.example.com", shown.BaseURL)
	assert.Equal(t, "env-id", shown.AppID)
	assert.Equal(t, "fi***********et", shown.AppKey)
	assert.Equal(t, config.DefaultTimeout, shown.Timeout)
}

func TestConfigMissingExplicitFile(t *testing.T) {
	_, err := run(t, "config", "show", "--config", filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestConfigInitNonInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	_, err := run(t, "config", "init", "--config", path,
		"--base-url", "https://api.example.com/v1", "--app-id", "id", "--app-key", "key")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", cfg.BaseURL)

	_, err = run(t, "config", "init", "--config", path,
		"--base-url", "https://api.example.com/v1", "--app-id", "id", "--app-key", "key")
	assert.Error(t, err)
}

func TestIdentityCreateGeneratesKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/identities", r.URL.Path)
		assert.Equal(t, "cli-id", r.Header.Get("app_id"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"chain_id":"abc","stage":"replicated"}`)
	}))
	defer srv.Close()

	out, err := run(t, "identity", "create", "--name", "Notary",
		"--base-url", srv.URL+"/v1", "--app-id", "cli-id", "--app-key", "k")
	require.NoError(t, err)

	var res codec.Object
	require.NoError(t, codec.JSON.UnmarshalFromString(out, &res))
	assert.Equal(t, "abc", res["chain_id"])
	assert.Len(t, res["key_pairs"], 3)
}

func TestIdentityCreateValidationError(t *testing.T) {
	_, err := run(t, "identity", "create", "--name", "n", "--key", "idpub-bad",
		"--base-url", "https://api.example.com", "--app-id", "i", "--app-key", "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idpub-bad")
}

func TestIdentityKeysReplace(t *testing.T) {
	oldKP, err := idkey.GenerateKeyPair()
	require.NoError(t, err)
	newKP, err := idkey.GenerateKeyPair()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/identities/abc/keys", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var payload codec.Object
		assert.NoError(t, codec.JSON.Unmarshal(body, &payload))
		assert.Equal(t, oldKP.PublicKey, payload["old_key"])
		assert.Equal(t, newKP.PublicKey, payload["new_key"])
		assert.Equal(t, oldKP.PublicKey, payload["signer_key"])
		_, _ = io.WriteString(w, `{"entry_hash":"e1"}`)
	}))
	defer srv.Close()

	out, err := run(t, "identity", "keys", "replace", "abc", "--yes",
		"--old", oldKP.PublicKey, "--new", newKP.PublicKey, "--signer-private-key", oldKP.PrivateKey,
		"--base-url", srv.URL, "--app-id", "i", "--app-key", "k")
	require.NoError(t, err)
	assert.Contains(t, out, `"entry_hash": "e1"`)
}

func TestChainGetRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"bad credentials"}`)
	}))
	defer srv.Close()

	_, err := run(t, "chain", "get", "c1", "--base-url", srv.URL, "--app-id", "i", "--app-key", "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNormalizePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("DOCS", "/srv/docs")
	assert.Equal(t, "/home/tester/.harmony/config.yml", NormalizePath("~/.harmony/config.yml"))
	assert.Equal(t, "/srv/docs/a.pdf", NormalizePath("$DOCS/a.pdf"))
}
