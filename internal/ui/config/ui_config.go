package ui_config

type Config struct { //nolint:maligned
	Menu struct {
		PollMs int    `hcl:"poll_ms"`
		Marker string `hcl:"marker"`
		Entry  string `hcl:"entry"`
	} `hcl:"menu"`

	IdleSec int `hcl:"idle_sec"`

	Backlight struct {
		Red   int `hcl:"red"`
		Green int `hcl:"green"`
		Blue  int `hcl:"blue"`
	} `hcl:"backlight"`
}
