// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags. A .env file in the
// working directory is read once, on first use, through joho/godotenv:
//
//	type Config struct {
//		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Results are cached per type and prefix. WithPrefix namespaces the variables
// of a struct, WithEnvFiles reads extra dotenv files and WithoutCache forces a
// fresh parse.
package config
