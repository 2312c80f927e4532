package main

type Config struct {
	Listen   string      `yaml:"listen"`
	Database string      `yaml:"database"`
	Form     string      `yaml:"form"`
	Secure   bool        `yaml:"secureCookies"`
	Login    LoginConfig `yaml:"login"`
	Bot      BotConfig   `yaml:"bot"`
}

type LoginConfig struct {
	Id          string      `yaml:"id"`
	Token       string      `yaml:"token"`
	RedirectUrl string      `yaml:"redirectUrl"`
	BaseUrl     string      `yaml:"baseUrl"`
	Guild       GuildConfig `yaml:"guild"`
}

// GuildConfig optionally restricts login to members of a Discord guild.
type GuildConfig struct {
	Id string `yaml:"id"`
}

type BotConfig struct {
	Token string `yaml:"token"`
}
