package filter

import (
	"github.com/Geun-Oh/uxlog/internal/entry"
)

// DeviceIndex maps each user to the first non-empty device logged for them anywhere
// in the dataset. Devices are usually logged once (at login), not on every row.
type DeviceIndex map[string]string

// IndexDevices scans every row and records each user's first non-empty device.
func IndexDevices(rows []entry.Row) DeviceIndex {
	idx := make(DeviceIndex)
	for i := range rows {
		r := &rows[i]
		if r.UserID == "" || r.Device == "" {
			continue
		}
		if _, ok := idx[r.UserID]; !ok {
			idx[r.UserID] = r.Device
		}
	}
	return idx
}

// DeviceSplit counts a user set by device.
type DeviceSplit struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
	Unknown int `json:"unknown"`
	// Clamped is set when the unknown count would have been negative.
	Clamped bool `json:"clamped,omitempty"`
}

// Total returns the number of users in the split.
func (s DeviceSplit) Total() int {
	return s.Desktop + s.Mobile + s.Unknown
}

// Split attributes each user to a device. Users without a recorded desktop or
// mobile device are unknown.
func (idx DeviceIndex) Split(users []string) DeviceSplit {
	var s DeviceSplit
	for _, u := range users {
		switch idx[u] {
		case entry.DeviceDesktop:
			s.Desktop++
		case entry.DeviceMobile:
			s.Mobile++
		}
	}
	s.Unknown = len(users) - s.Desktop - s.Mobile
	if s.Unknown < 0 {
		s.Unknown = 0
		s.Clamped = true
	}
	return s
}
