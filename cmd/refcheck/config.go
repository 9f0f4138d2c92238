// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/fergidotcom/reference-refinement/pkg/types"
)

// buildConfig assembles the runtime configuration from the config file,
// environment, and loaded secrets.
func buildConfig() types.Config {
	var cfg types.Config

	cfg.Fetch.Timeout = viper.GetDuration("fetch.timeout")
	cfg.Fetch.UserAgent = viper.GetString("fetch.user_agent")
	cfg.Fetch.MaxRedirects = viper.GetInt("fetch.max_redirects")
	cfg.Fetch.MaxBodyBytes = viper.GetInt("fetch.max_body_bytes")
	cfg.Fetch.MaxRetries = viper.GetInt("fetch.max_retries")
	cfg.Fetch.PerHostRPS = viper.GetFloat64("fetch.per_host_rps")

	cfg.Match.Model = viper.GetString("match.model")
	cfg.Match.EnableAI = viper.GetBool("match.enable_ai")
	cfg.Match.ExcerptBytes = viper.GetInt("match.excerpt_bytes")

	cfg.Rank.BatchSize = viper.GetInt("rank.batch_size")
	cfg.Rank.NetworkValidation = viper.GetBool("rank.network_validation")
	cfg.Rank.PrimaryThreshold = viper.GetInt("rank.primary_threshold")
	cfg.Rank.SecondaryThreshold = viper.GetInt("rank.secondary_threshold")
	cfg.Rank.RelaxedSecondaryThreshold = viper.GetInt("rank.relaxed_secondary_threshold")
	cfg.Rank.AmbiguityThreshold = viper.GetInt("rank.ambiguity_threshold")
	cfg.Rank.AutoFinalizeThreshold = viper.GetInt("rank.auto_finalize_threshold")

	cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	cfg.Cache.Path = viper.GetString("cache.path")

	cfg.LogLevel = viper.GetString("log_level")

	cfg.SetDefaults()
	cfg.Match.APIKey = secretDefault("anthropic-api-key", viper.GetString("match.api_key"))
	return cfg
}
