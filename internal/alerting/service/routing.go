package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoutingFlags are per-alert-type defaults for the notification routing
// flags. Nil fields defer to the built-in defaults. Dispatch itself lives
// outside this service; only the flags are stored.
type RoutingFlags struct {
	NotifyAdmins          *bool `yaml:"notify_admins"`
	NotifySupervisors     *bool `yaml:"notify_supervisors"`
	SendPushNotification  *bool `yaml:"send_push_notification"`
	SendEmailNotification *bool `yaml:"send_email_notification"`
	SendSMSNotification   *bool `yaml:"send_sms_notification"`
}

// RoutingDefaults maps alert_type to its routing flag defaults, loaded once
// at startup from an optional YAML file.
type RoutingDefaults struct {
	byType map[string]RoutingFlags
}

type routingConfigFile struct {
	Defaults map[string]RoutingFlags `yaml:"defaults"`
}

// LoadRoutingDefaults reads the routing defaults file. An empty path yields
// an empty (all built-in) default set.
func LoadRoutingDefaults(path string) (*RoutingDefaults, error) {
	rd := &RoutingDefaults{byType: map[string]RoutingFlags{}}
	if strings.TrimSpace(path) == "" {
		return rd, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routing defaults: %w", err)
	}
	var cfg routingConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse routing defaults: %w", err)
	}
	for alertType, flags := range cfg.Defaults {
		rd.byType[strings.TrimSpace(alertType)] = flags
	}
	return rd, nil
}

// For returns the defaults for an alert type. Safe on a nil receiver.
func (rd *RoutingDefaults) For(alertType string) RoutingFlags {
	if rd == nil {
		return RoutingFlags{}
	}
	return rd.byType[alertType]
}
