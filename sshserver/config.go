package sshserver

// Config defines SSH server settings.
type Config struct {
	Addr        string
	HostKeyPath string
	Theme       string
	// QR appends a scannable contact code to the contact panel.
	QR bool
}
