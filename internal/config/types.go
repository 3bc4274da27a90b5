package config

import "time"

type Config struct {
	Server   ServerConfig `yaml:"server" json:"server"`
	Bot      BotConfig    `yaml:"bot" json:"bot"`
	User     UserConfig   `yaml:"user" json:"user"`
	Contacts []Contact    `yaml:"contacts" json:"contacts"`
}

type ServerConfig struct {
	Port int        `yaml:"port" json:"port"`
	Auth AuthConfig `yaml:"auth" json:"auth"`
}

type AuthConfig struct {
	Token string `yaml:"token" json:"token"`
}

// BotConfig drives the relay's auto-responder. Rules are evaluated in
// declaration order; the first match wins.
type BotConfig struct {
	Name    string    `yaml:"name" json:"name"`
	DelayMS int       `yaml:"delayMs" json:"delayMs"`
	Rules   []BotRule `yaml:"rules" json:"rules"`
}

type BotRule struct {
	Contains string `yaml:"contains" json:"contains"`
	Reply    string `yaml:"reply" json:"reply"`
}

func (b BotConfig) Delay() time.Duration {
	return time.Duration(b.DelayMS) * time.Millisecond
}

// UserConfig is the local identity stamped onto outgoing messages.
type UserConfig struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Avatar string `yaml:"avatar" json:"avatar"`
}

// Contact is a 1:1 conversation peer shown in the sidebar.
type Contact struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Avatar string `yaml:"avatar" json:"avatar"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 19777,
		},
		Bot: BotConfig{
			Name:    "Auntie Luna",
			DelayMS: 1000,
			Rules: []BotRule{
				{Contains: "tired", Reply: "Sweetie, don't forget to rest 🌙💤"},
				{Contains: "love", Reply: "I love you too, my dear 💙"},
				{Contains: "school", Reply: "Good luck at school tomorrow 📚✨"},
				{Contains: "dinner", Reply: "Don't skip meals, eat well 🍲❤️"},
			},
		},
		User: UserConfig{
			ID:     "me",
			Name:   "You",
			Avatar: "https://i.pravatar.cc/150?img=5",
		},
		Contacts: []Contact{
			{ID: "dad", Name: "Dad", Avatar: "https://i.pravatar.cc/150?img=10"},
			{ID: "mom", Name: "Mom", Avatar: "https://i.pravatar.cc/150?img=11"},
			{ID: "sara", Name: "Sara", Avatar: "https://i.pravatar.cc/150?img=12"},
		},
	}
}
