package config

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

type fakeStore struct {
	value string
	err   error
	calls int
}

func (s *fakeStore) GetParameter(ctx context.Context, name string) (string, error) {
	s.calls++
	return s.value, s.err
}

func TestDefault(t *testing.T) {
	Convey("Default", t, func() {
		cfg := Default()
		So(cfg.ValidateIDFormat, ShouldBeTrue)
		So(cfg.TryAlternativeEndpoint, ShouldBeTrue)
		So(cfg.EnableFallbackDescriptors, ShouldBeTrue)
		So(cfg.PrimaryTimeout(), ShouldEqual, 10*time.Second)
		So(cfg.SecondaryTimeout(), ShouldEqual, 15*time.Second)
		So(cfg.AllowedMethods(), ShouldEqual, "GET, POST, OPTIONS")
		So(cfg.APIKey, ShouldBeEmpty)
	})
}

func TestLoadConfigFromEnv(t *testing.T) {
	Convey("LoadConfigFromEnv", t, func() {
		t.Setenv(EnvAPIKey, "secret")
		t.Setenv(EnvValidateID, "false")
		t.Setenv(EnvEnableFallback, "not-a-bool")
		t.Setenv(EnvPrimaryTimeoutMs, "2500")
		t.Setenv(EnvSecondaryTimeoutMs, "-1")

		cfg := LoadConfigFromEnv()
		So(cfg.APIKey, ShouldEqual, "secret")
		So(cfg.ValidateIDFormat, ShouldBeFalse)
		So(cfg.EnableFallbackDescriptors, ShouldBeTrue)
		So(cfg.PrimaryTimeout(), ShouldEqual, 2500*time.Millisecond)
		So(cfg.SecondaryTimeoutMs, ShouldEqual, DefaultSecondaryTimeoutMs)
	})
}

func TestLoadConfigFromFile(t *testing.T) {
	Convey("LoadConfigFromFile", t, func() {
		fs := afero.NewMemMapFs()

		Convey("Should decode over the defaults", func() {
			So(afero.WriteFile(fs, DefaultConfigPath, []byte("allow_post: false\nlocal_port: 9000\nprimary_timeout_ms: 5000\n"), 0644), ShouldBeNil)
			cfg, err := LoadConfigFromFile(fs, "")
			So(err, ShouldBeNil)
			So(cfg.AllowPost, ShouldBeFalse)
			So(cfg.AllowedMethods(), ShouldEqual, "GET, OPTIONS")
			So(cfg.LocalPort, ShouldEqual, 9000)
			So(cfg.PrimaryTimeoutMs, ShouldEqual, 5000)
			So(cfg.BaseURL, ShouldEqual, DefaultBaseURL)
			So(cfg.TryAlternativeEndpoint, ShouldBeTrue)
		})

		Convey("Should let the environment supply the key", func() {
			t.Setenv(EnvAPIKey, "from-env")
			So(afero.WriteFile(fs, "/etc/details.yaml", []byte("rapidapi_key: from-file\n"), 0644), ShouldBeNil)
			cfg, err := LoadConfigFromFile(fs, "/etc/details.yaml")
			So(err, ShouldBeNil)
			So(cfg.APIKey, ShouldEqual, "from-env")
		})

		Convey("Should fail for a missing file", func() {
			_, err := LoadConfigFromFile(fs, "/nope.yaml")
			So(err, ShouldNotBeNil)
		})

		Convey("Should fail for invalid yaml", func() {
			So(afero.WriteFile(fs, "/bad.yaml", []byte("local_port: [1, 2"), 0644), ShouldBeNil)
			_, err := LoadConfigFromFile(fs, "/bad.yaml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	Convey("ResolveAPIKey", t, func() {
		Convey("Should load the key from the store", func() {
			cfg := Default()
			cfg.APIKeySSMParameter = "/yt/rapidapi-key"
			store := &fakeStore{value: "from-ssm"}
			ResolveAPIKey(ctx, cfg, store)
			So(cfg.APIKey, ShouldEqual, "from-ssm")
		})

		Convey("Should keep an existing key", func() {
			cfg := Default()
			cfg.APIKey = "set"
			cfg.APIKeySSMParameter = "/yt/rapidapi-key"
			store := &fakeStore{value: "from-ssm"}
			ResolveAPIKey(ctx, cfg, store)
			So(cfg.APIKey, ShouldEqual, "set")
			So(store.calls, ShouldEqual, 0)
		})

		Convey("Should leave the key empty on a store failure", func() {
			cfg := Default()
			cfg.APIKeySSMParameter = "/yt/rapidapi-key"
			ResolveAPIKey(ctx, cfg, &fakeStore{err: errors.New("access denied")})
			So(cfg.APIKey, ShouldBeEmpty)
		})
	})
}
