package env

import "time"

const (
	GPIO02 = "GPIO2" // SDA
	GPIO03 = "GPIO3" // SCL
	GPIO13 = "GPIO13"
	GPIO21 = "GPIO21"
	GPIO22 = "GPIO22"
	GPIO23 = "GPIO23"

	// nutrient buttons are wired to ground with the internal pull-up enabled
	PhosphorusButtonIn = GPIO22
	PotassiumButtonIn  = GPIO21

	IrrigationRelayOut = GPIO13

	// single wire humidity sensor, used unless -hygrometer selects the BME280
	DHTPin           = GPIO23
	DHTRetries       = 3
	HygrometerDHT22  = "dht22"
	HygrometerBME280 = "bme280"

	// I2C devices
	BME280Addr      uint16 = 0x76
	LCDBackpackAddr uint16 = 0x27
	LCDColumns             = 16
	LCDRows                = 2

	// the LDR is read on the ADS1115 and rescaled to the 12 bit range the
	// pH proxy was calibrated against
	PHChannel     = 0
	ADCMaxRaw     = 4095
	ADCReferenceV = 3.3

	PHScaleMax = 140 // tenths of pH
	PHMin      = 5.5
	PHMax      = 7.0

	HumiditySaturated = 70.0
	HumidityDry       = 40.0

	SampleInterval = time.Millisecond * 3000
	PollInterval   = time.Millisecond * 50

	SerialBaudRate = 115200

	ThingSpeakMinInterval = time.Second * 20

	Banner        = "Sistema de Irrigação - Milho"
	DisplayBanner = "Sistema Irrigacao"
)
