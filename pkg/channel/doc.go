// Package channel models the delivery channels for one-time codes and the
// per-provider configuration used to reach them.
//
// Select resolves the channel for a request: an explicit request parameter
// (SMS or EMAIL, case-insensitive) wins, then the configured default, then
// SMS. Catalog loads the provider configuration for both channels from YAML.
package channel
