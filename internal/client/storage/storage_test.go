package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FileNotExist(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	if err := fs.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := fs.Get(KeyToken); ok {
		t.Error("expected empty store")
	}
}

func TestLoad_FileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	buf, _ := json.Marshal(map[string]string{KeyToken: "abc", KeyUserInfo: `{"id":"1"}`})
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileStore(path)
	if err := fs.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, ok := fs.Get(KeyToken); !ok || v != "abc" {
		t.Errorf("token = %q, %v; want abc, true", v, ok)
	}
	if v, _ := fs.Get(KeyUserInfo); v != `{"id":"1"}` {
		t.Errorf("userInfo = %q", v)
	}
}

func TestLoad_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("not-json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSetRemove_Persisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	fs := NewFileStore(path)
	if err := fs.Set(KeyToken, "t1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := fs.Set(KeyUserInfo, "{}"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewFileStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := reopened.Get(KeyToken); v != "t1" {
		t.Errorf("token = %q; want t1", v)
	}

	if err := fs.Remove(KeyToken); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := fs.Remove(KeyToken); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}

	reopened = NewFileStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := reopened.Get(KeyToken); ok {
		t.Error("token still present after Remove")
	}
	if _, ok := reopened.Get(KeyUserInfo); !ok {
		t.Error("userInfo lost")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v; want 0600", info.Mode().Perm())
	}
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	_ = ms.Set("k", "v")
	if v, ok := ms.Get("k"); !ok || v != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	_ = ms.Remove("k")
	if _, ok := ms.Get("k"); ok {
		t.Error("expected key removed")
	}
}
