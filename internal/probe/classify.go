// Package probe classifies visitors and resolves the address shown in the
// terminal prompt. Nothing here fails hard: unknown input degrades to
// placeholder values.
package probe

import (
	"strings"

	"github.com/nolindnaidoo/termfolio/schema"
)

// Classify derives browser and OS from a user-agent and platform string.
// Rules are ordered and the first match wins.
func Classify(userAgent, platform string) schema.DeviceInfo {
	platform = strings.ToLower(strings.Trim(strings.TrimSpace(platform), `"`))
	has := func(s string) bool { return strings.Contains(userAgent, s) }

	browser := schema.UnknownValue
	switch {
	case has("Chrome") && !has("Edg"):
		browser = "chrome"
	case has("Firefox"):
		browser = "firefox"
	case has("Safari") && !has("Chrome"):
		browser = "safari"
	case has("Edg"):
		browser = "edge"
	case has("Opera") || has("OPR"):
		browser = "opera"
	}

	device := schema.UnknownValue
	switch {
	case has("iPhone"):
		device = "iphone"
	case has("iPad"):
		device = "ipad"
	case has("Android") && has("Mobile"):
		device = "android"
	case has("Android"):
		device = "android-tablet"
	case strings.Contains(platform, "mac") || has("Macintosh"):
		device = "macos"
	case strings.Contains(platform, "win") || has("Windows"):
		device = "windows"
	case strings.Contains(platform, "linux") || has("Linux"):
		device = "linux"
	}

	return schema.DeviceInfo{Browser: browser, Device: device, UserAgent: userAgent}
}

// ServerSide is the classification used when no client environment exists.
func ServerSide() schema.DeviceInfo {
	return schema.DeviceInfo{Browser: "ssr", Device: "node", UserAgent: "server-side"}
}

// ClassifySSH derives a client/OS pair from an SSH client version banner
// such as "SSH-2.0-OpenSSH_9.6p1 Ubuntu-3ubuntu13".
func ClassifySSH(clientVersion string) schema.DeviceInfo {
	version := strings.TrimSpace(clientVersion)
	lower := strings.ToLower(version)
	has := func(s string) bool { return strings.Contains(lower, s) }

	client := "ssh"
	switch {
	case has("putty"):
		client = "putty"
	case has("termius"):
		client = "termius"
	case has("openssh"):
		client = "openssh"
	case has("dropbear"):
		client = "dropbear"
	case has("libssh"):
		client = "libssh"
	case strings.HasPrefix(lower, "ssh-2.0-go"):
		client = "go"
	}

	device := "terminal"
	switch {
	case has("windows") || client == "putty":
		device = "windows"
	case has("ubuntu") || has("debian") || has("fedora") || has("linux"):
		device = "linux"
	case has("freebsd") || has("openbsd") || has("netbsd"):
		device = "bsd"
	}

	if version == "" {
		version = schema.UnknownValue
	}
	return schema.DeviceInfo{Browser: client, Device: device, UserAgent: version}
}
