// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

// Manufacturer specific commands, sent over DSI.
const (
	cmdAllPixelsOff byte = 0x22
	cmdAllPixelsOn  byte = 0x23
	cmdUnknownB1    byte = 0xB1
	cmdSetDisp      byte = 0xB2
	cmdSetRGBIF     byte = 0xB3
	cmdSetCyc       byte = 0xB4
	cmdSetBGP       byte = 0xB5
	cmdSetVCOM      byte = 0xB6
	cmdSetOTP       byte = 0xB7
	cmdSetPowerExt  byte = 0xB8
	cmdSetEXTC      byte = 0xB9
	cmdSetMIPI      byte = 0xBA
	cmdSetVDC       byte = 0xBC
	cmdUnknownBF    byte = 0xBF
	cmdSetSCR       byte = 0xC0
	cmdSetPower     byte = 0xC1
	cmdUnknownC6    byte = 0xC6
	cmdSetIO        byte = 0xC7
	cmdSetCABC      byte = 0xC8
	cmdSetPanel     byte = 0xCC
	cmdSetGamma     byte = 0xE0
	cmdSetEQ        byte = 0xE3
	cmdSetGIP1      byte = 0xE9
	cmdSetGIP2      byte = 0xEA
	cmdUnknownEF    byte = 0xEF
)
