// Package file persists configuration as TOML at
// ~/.docsage/config.toml. Values are addressed by dotted key
// (embedding.provider, llm.model, scheduler.enabled) and stored on
// disk as sections.
package file
