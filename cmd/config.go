package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RabbitURL is optional. When empty, notifications stay on the
	// in-process websocket hub only.
	RabbitURL string

	// ReminderCutoffMinutes is how long an order may stay pending before
	// its branch is nudged.
	ReminderCutoffMinutes int
}
