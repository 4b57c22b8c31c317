// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package facade

import (
	"fmt"
)

// reservedPluginKeys are the names already taken by the facade itself.
var reservedPluginKeys = map[string]struct{}{
	"EXCEPTION":              {},
	"ERROR":                  {},
	"WARN":                   {},
	"INFO":                   {},
	"error":                  {},
	"warn":                   {},
	"info":                   {},
	"version":                {},
	"config":                 {},
	"addAppender":            {},
	"removeAppender":         {},
	"getAppender":            {},
	"getRegisteredAppenders": {},
	"addPlugin":              {},
	"BaseAppender":           {},
}

// AddPlugin registers plugin under the key returned by its String method. The first
// plugin registered under a key wins; later ones, and keys owned by the facade, are
// ignored.
func (lc *LoggingContext) AddPlugin(plugin fmt.Stringer) {
	if isNil(plugin) {
		return
	}

	key := plugin.String()
	if _, reserved := reservedPluginKeys[key]; reserved {
		lc.log.Debug("plugin key reserved", "plugin", key)
		return
	}

	lc.pluginsLock.Lock()
	defer lc.pluginsLock.Unlock()
	if _, found := lc.plugins[key]; found {
		lc.log.Debug("plugin already registered", "plugin", key)
		return
	}
	lc.plugins[key] = plugin
}

// Plugin returns the plugin registered under key.
func (lc *LoggingContext) Plugin(key string) (fmt.Stringer, bool) {
	lc.pluginsLock.RLock()
	defer lc.pluginsLock.RUnlock()

	plugin, ok := lc.plugins[key]
	return plugin, ok
}
