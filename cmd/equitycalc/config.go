package main

const (
	Version           = "v0.3.0"
	DefaultConfigPath = "config/equitycalc.yaml"
)
