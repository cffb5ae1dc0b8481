//go:build linux

package probe

import (
	"strconv"
	"strings"

	"github.com/siderolabs/go-smbios/smbios"
)

// linuxProbe reads the well-known /proc and /sys pseudo-files and, where
// those fall short, SMBIOS tables and a dmidecode dump. Paths live in fields
// so tests can point the probe at fixtures.
type linuxProbe struct {
	cpuInfoPath    string
	memInfoPath    string
	thermalPath    string
	osReleasePath  string
	releasePaths   []string
	machineIDPaths []string
	dumpCommand    string
	smbiosTables   bool
}

func newPlatformProbe() PlatformProbe {
	return &linuxProbe{
		cpuInfoPath:   "/proc/cpuinfo",
		memInfoPath:   "/proc/meminfo",
		thermalPath:   "/sys/class/thermal/thermal_zone0/temp",
		osReleasePath: "/etc/os-release",
		releasePaths:  []string{"/etc/centos-release", "/etc/redhat-release"},
		machineIDPaths: []string{
			"/etc/machine-id",
			"/var/lib/dbus/machine-id",
		},
		dumpCommand:  "dmidecode",
		smbiosTables: true,
	}
}

func (p *linuxProbe) Fill(snap *MachineSnapshot) {
	p.fillProcessor(snap)
	p.fillMemory(snap)
	p.fillTemperature(snap)
	p.fillOSRelease(snap)
	p.fillMachineID(snap)
	p.fillHardwareIdentity(snap)
}

func (p *linuxProbe) fillProcessor(snap *MachineSnapshot) {
	// Compact boards (Raspberry Pi and friends) describe themselves under
	// "Model"; the remaining keys cover the x86, MIPS, and ARM spellings.
	for _, key := range []string{"Model", "cpu model", "model name", "Hardware"} {
		if v, ok := findInFile(p.cpuInfoPath, key); ok {
			snap.ProcessorModel = v
			break
		}
	}

	if v, ok := findInFile(p.cpuInfoPath, "Serial", "serial"); ok {
		snap.ProcessorSerial = v
	}
}

func (p *linuxProbe) fillMemory(snap *MachineSnapshot) {
	snap.TotalMemoryBytes = p.memInfoBytes("MemTotal")
	snap.AvailableMemoryBytes = p.memInfoBytes("MemAvailable")
}

// memInfoBytes reads a /proc/meminfo entry of the form "<int> kB" and
// normalizes it to bytes.
func (p *linuxProbe) memInfoBytes(key string) uint64 {
	v, ok := findInFile(p.memInfoPath, key)
	if !ok {
		return 0
	}
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "kB"))
	kb, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return kb * 1024
}

func (p *linuxProbe) fillTemperature(snap *MachineSnapshot) {
	v, ok := findInFile(p.thermalPath)
	if !ok {
		return
	}
	milli, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return
	}
	snap.TemperatureCelsius = float64(milli) / 1000
}

// fillOSRelease resolves the distribution name through a fixed chain:
// distribution release markers first, then the generic os-release file's
// PRETTY_NAME. The first existing source wins.
func (p *linuxProbe) fillOSRelease(snap *MachineSnapshot) {
	for _, path := range p.releasePaths {
		if v, ok := findInFile(path); ok {
			snap.OSName = v
			break
		}
	}
	if snap.OSName == "" {
		snap.OSName = p.osReleaseValue("PRETTY_NAME")
	}
	snap.OSVersion = p.osReleaseValue("VERSION_ID")
}

// osReleaseValue extracts one key from the os-release file, which holds
// KEY=value pairs with optionally quoted values.
func (p *linuxProbe) osReleaseValue(key string) string {
	data, ok := readWholeFile(p.osReleasePath)
	if !ok {
		return ""
	}
	for _, line := range strings.Split(data, "\n") {
		k, v, found := strings.Cut(line, "=")
		if !found || strings.TrimSpace(k) != key {
			continue
		}
		return strings.Trim(strings.TrimSpace(v), `"`)
	}
	return ""
}

func (p *linuxProbe) fillMachineID(snap *MachineSnapshot) {
	for _, path := range p.machineIDPaths {
		if v, ok := findInFile(path); ok && v != "" {
			snap.MachineGUID = v
			return
		}
	}
}

// fillHardwareIdentity supplies the identifiers /proc does not carry. SMBIOS
// tables are consulted first when readable; a dmidecode dump then overwrites
// or fills the processor serial and hardware UUID where its keys are present.
func (p *linuxProbe) fillHardwareIdentity(snap *MachineSnapshot) {
	if p.smbiosTables {
		if s, err := smbios.New(); err == nil {
			if snap.HardwareUUID == "" {
				snap.HardwareUUID = strings.TrimSpace(s.SystemInformation.UUID)
			}
			if snap.ProcessorSerial == "" && len(s.ProcessorInformation) > 0 {
				snap.ProcessorSerial = strings.TrimSpace(s.ProcessorInformation[0].SerialNumber)
			}
		}
	}

	if p.dumpCommand == "" {
		return
	}
	p.scanHardwareDump(runCommand(p.dumpCommand), snap)
}

// scanHardwareDump scans a dmidecode-style dump. "ID" carries the processor
// signature as spaced hex bytes, compacted here into one token; "UUID" is
// taken verbatim.
func (p *linuxProbe) scanHardwareDump(out string, snap *MachineSnapshot) {
	if out == "" {
		return
	}
	if v, ok := findInText(out, "ID"); ok {
		snap.ProcessorSerial = strings.ReplaceAll(v, " ", "")
	}
	if v, ok := findInText(out, "UUID"); ok {
		snap.HardwareUUID = v
	}
}
