/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

// memKeyring keeps secrets in a map so tests never touch the OS keyring.
type memKeyring map[string]string

func (m memKeyring) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (m memKeyring) Set(service, key, value string) error {
	m[service+"/"+key] = value
	return nil
}
func (m memKeyring) Delete(service, key string) error {
	delete(m, service+"/"+key)
	return nil
}

func withMemKeyring(t *testing.T) memKeyring {
	t.Helper()
	old := tokenStore
	m := memKeyring{}
	tokenStore = m
	t.Cleanup(func() { tokenStore = old })
	return m
}

func TestEnvOverridesBackendURL(t *testing.T) {
	withMemKeyring(t)
	old := os.Getenv(EnvBackendURL)
	_ = os.Setenv(EnvBackendURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvBackendURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Backend.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetryAndProject(t *testing.T) {
	withMemKeyring(t)
	oldTel := os.Getenv(EnvTelemetryOptIn)
	oldProj := os.Getenv(EnvProjectID)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	_ = os.Setenv(EnvProjectID, "proj-env")
	t.Cleanup(func() {
		_ = os.Setenv(EnvTelemetryOptIn, oldTel)
		_ = os.Setenv(EnvProjectID, oldProj)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
	if cfg.General.ProjectID != "proj-env" {
		t.Fatalf("General.ProjectID = %q", cfg.General.ProjectID)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/sfc.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/sfc.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withMemKeyring(t)
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	oldSrc := os.Getenv(EnvLogSource)
	oldFile := os.Getenv(EnvLogFile)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	_ = os.Setenv(EnvLogSource, "1")
	_ = os.Setenv(EnvLogFile, "X:/sfc.log")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
		_ = os.Setenv(EnvLogSource, oldSrc)
		_ = os.Setenv(EnvLogFile, oldFile)
	})
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/sfc.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestSecretsRoundTripThroughKeyring(t *testing.T) {
	m := withMemKeyring(t)
	if err := Save(Defaults(), Secrets{Token: "tok-1", AntiForgery: "csrf-1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m[keyringService+"/"+keyringToken] != "tok-1" {
		t.Fatalf("token not stored in keyring: %v", m)
	}
	_, sec, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sec.Token != "tok-1" || sec.AntiForgery != "csrf-1" {
		t.Fatalf("secrets = %+v", sec)
	}
	if err := ClearSecrets(); err != nil {
		t.Fatalf("ClearSecrets: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("keyring not cleared: %v", m)
	}
}

func TestEffectiveTimeout(t *testing.T) {
	if got := (BackendConfig{TimeoutMs: 2500}).EffectiveTimeout(); got != 2500*time.Millisecond {
		t.Fatalf("timeout = %v", got)
	}
	if got := (BackendConfig{}).EffectiveTimeout(); got != 15*time.Second {
		t.Fatalf("default timeout = %v", got)
	}
}
