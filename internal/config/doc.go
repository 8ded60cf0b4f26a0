// Package config manages the wolctl configuration file.
//
// The file records which wolapp server to talk to, servers seen by mDNS
// discovery and a few preferences, including the dark mode flag.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/wolctl/config.yaml or $HOME/.config/wolctl/config.yaml
//   - macOS: $HOME/.config/wolctl/config.yaml
//   - Windows: %LOCALAPPDATA%\wolctl\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	server := registry.ResolveServer(flagServer)
//
//	registry.Server = "http://192.168.1.10:8080"
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for initialization. Writes are serialized
// and atomic (temp file, then rename).
package config
