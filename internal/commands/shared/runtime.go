// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"context"
	"log/slog"

	"github.com/tombee/faas-form/internal/config"
	"github.com/tombee/faas-form/internal/faas"
	"github.com/tombee/faas-form/internal/httpclient"
	"github.com/tombee/faas-form/internal/log"
)

// ProviderFactory builds the function provider for a configuration.
type ProviderFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faas.Provider, error)

var providerFactory ProviderFactory = newProvider

// SetProviderFactoryForTest replaces the provider factory and returns a
// function restoring the previous one.
func SetProviderFactoryForTest(f ProviderFactory) (restore func()) {
	prev := providerFactory
	providerFactory = f
	return func() { providerFactory = prev }
}

// LoadConfig loads the configuration selected by --config and applies the
// --provider override.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if p := GetProvider(); p != "" && p != cfg.Provider {
		cfg.Provider = p
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewLogger creates the command logger. --verbose lowers the level to debug.
func NewLogger(cfg *config.Config) *slog.Logger {
	lc := cfg.Logging()
	if GetVerbose() {
		lc.Level = "debug"
	}
	return log.New(lc)
}

// Setup loads the configuration and creates the logger and provider.
func Setup(ctx context.Context) (*config.Config, *slog.Logger, faas.Provider, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := NewLogger(cfg)
	provider, err := providerFactory(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("provider ready", log.ProviderKey, provider.Name())
	return cfg, logger, provider, nil
}

func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faas.Provider, error) {
	switch cfg.Provider {
	case config.ProviderHTTP:
		functions := make(map[string]faas.HTTPFunction, len(cfg.HTTP.Functions))
		for name, fn := range cfg.HTTP.Functions {
			functions[name] = faas.HTTPFunction{URL: fn.URL, Description: fn.Description}
		}
		client := httpclient.DefaultConfig()
		client.Timeout = cfg.HTTP.Timeout
		client.UserAgent = "faas-form/" + version
		client.Headers = cfg.HTTP.Headers
		return faas.NewHTTPProvider(faas.HTTPConfig{
			BaseURL:   cfg.HTTP.BaseURL,
			Functions: functions,
			Client:    client,
		}, logger)
	default:
		return faas.NewLambdaProvider(ctx, faas.LambdaConfig{
			Region:  cfg.AWS.Region,
			Profile: cfg.AWS.Profile,
		}, logger)
	}
}
