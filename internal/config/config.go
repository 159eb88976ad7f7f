package config

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	RedisServer string
	Jwt         struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
	}
	KafkaServers string
	Uploads      struct {
		Dir string
	}
	Kyc struct {
		// Policy selects the approval policy used for automated decisions.
		// Accepted values are "lenient" and "strict".
		Policy string
	}
}
