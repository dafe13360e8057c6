// Package topic defines the closed set of delivery channels used by the
// event manager. Topics are fixed at build time; there is no runtime
// registration and no pattern matching.
package topic

// Topic identifies a delivery channel. It carries no payload itself.
type Topic uint8

// The full topic set for the device. New topics are appended before Count.
const (
	// GNSS receiver events.
	GPSDataReady Topic = iota
	GPSFixStatusChanged
	GPSPositionUpdated

	// RTCM correction stream events.
	RTCMDataReceived
	RTCMParseComplete

	// Cellular modem events.
	GSMConnected
	GSMDisconnected
	NTRIPDataReceived

	// LoRa link events.
	LoRaTXComplete
	LoRaRXComplete
	LoRaError

	// BLE link events.
	BLEConnected
	BLEDisconnected
	BLECmdReceived

	// RS485 bus events.
	RS485DataReceived
	RS485TXComplete

	// System events.
	SystemError
	ParamChanged
	LowBattery

	// Count is the number of defined topics. It is not a valid topic.
	Count
)

var names = [Count]string{
	GPSDataReady:        "GPS_DATA_READY",
	GPSFixStatusChanged: "GPS_FIX_STATUS_CHANGED",
	GPSPositionUpdated:  "GPS_POSITION_UPDATED",
	RTCMDataReceived:    "RTCM_DATA_RECEIVED",
	RTCMParseComplete:   "RTCM_PARSE_COMPLETE",
	GSMConnected:        "GSM_CONNECTED",
	GSMDisconnected:     "GSM_DISCONNECTED",
	NTRIPDataReceived:   "NTRIP_DATA_RECEIVED",
	LoRaTXComplete:      "LORA_TX_COMPLETE",
	LoRaRXComplete:      "LORA_RX_COMPLETE",
	LoRaError:           "LORA_ERROR",
	BLEConnected:        "BLE_CONNECTED",
	BLEDisconnected:     "BLE_DISCONNECTED",
	BLECmdReceived:      "BLE_CMD_RECEIVED",
	RS485DataReceived:   "RS485_DATA_RECEIVED",
	RS485TXComplete:     "RS485_TX_COMPLETE",
	SystemError:         "SYSTEM_ERROR",
	ParamChanged:        "PARAM_CHANGED",
	LowBattery:          "LOW_BATTERY",
}

// Valid reports whether t is a defined topic.
func (t Topic) Valid() bool {
	return t < Count
}

// String returns the topic's diagnostic name, or "UNKNOWN" for values
// outside the defined set.
func (t Topic) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return names[t]
}
