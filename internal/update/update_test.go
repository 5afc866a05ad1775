package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheck_NoNetworkOrCI(t *testing.T) {
	t.Setenv("CI", "1")
	if latest, newer, err := Check(context.Background(), "1.0.0", false); err != nil || latest != "" || newer {
		t.Fatalf("expected no-op in CI; got latest=%q newer=%v err=%v", latest, newer, err)
	}
	t.Setenv("CI", "")
	if latest, newer, err := Check(context.Background(), "1.0.0", true); err != nil || latest != "" || newer {
		t.Fatalf("expected no-op without network; got latest=%q newer=%v err=%v", latest, newer, err)
	}
}

func TestNormalizeAndNewer(t *testing.T) {
	if normalize(" v1.2.3 ") != "1.2.3" {
		t.Fatalf("normalize failed")
	}
	cases := []struct {
		a, b string
		want bool
	}{
		{"1.2.3", "1.2.3", false},
		{"1.3.0", "1.2.9", true},
		{"1.2.0", "1.2.1", false},
		{"v1.10.0", "1.9.9", true},
		{"1.2.0", "1.2.0-rc.1", true},
		{"garbage", "1.0.0", false},
		{"1.0.0", "dev", false},
	}
	for _, c := range cases {
		if got := Newer(c.a, c.b); got != c.want {
			t.Fatalf("Newer(%q, %q)=%v want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCheck_UsesCacheWhenFresh(t *testing.T) {
	t.Setenv("CI", "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	c := cache{LastChecked: time.Now(), Latest: "1.2.3"}
	path := filepath.Join(dir, "allnighter", cacheFileName)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	b, _ := json.Marshal(c)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(err)
	}
	latest, newer, err := Check(context.Background(), "1.2.2", false)
	if err != nil {
		t.Fatal(err)
	}
	if latest != "1.2.3" || !newer {
		t.Fatalf("expected cached latest=1.2.3 and newer=true; got latest=%q newer=%v", latest, newer)
	}
}

func TestCheck_RefreshesStaleCacheFromServer(t *testing.T) {
	t.Setenv("CI", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"tag_name": "v9.9.9"})
	}))
	defer srv.Close()
	old := latestURL
	latestURL = srv.URL
	defer func() { latestURL = old }()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	latest, newer, err := Check(context.Background(), "1.0.0", false)
	if err != nil {
		t.Fatal(err)
	}
	if latest != "9.9.9" || !newer {
		t.Fatalf("expected latest=9.9.9 newer=true; got latest=%q newer=%v", latest, newer)
	}
	c, err := loadCache()
	if err != nil || c.Latest != "9.9.9" {
		t.Fatalf("expected cache to be written; got %+v err=%v", c, err)
	}
}

func TestLatestVersionOnline_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()
	old := latestURL
	latestURL = srv.URL
	defer func() { latestURL = old }()

	if _, err := latestVersionOnline(context.Background()); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
