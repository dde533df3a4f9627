package env

type Args struct {
	Test     *bool // simulated hardware
	Verbose  *bool
	Metrics  *bool
	HTTPAddr *string
	Serial   *string
	Humidity *string // HygrometerDHT22 or HygrometerBME280
}
