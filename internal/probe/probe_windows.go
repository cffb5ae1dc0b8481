//go:build windows

package probe

import (
	"log"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/registry"
)

// windowsProbe gathers everything through WMI plus one registry read for the
// machine GUID. Multi-socket machines return one WMI row per processor; the
// rows collapse into a single sorted, deduplicated string.
type windowsProbe struct{}

func newPlatformProbe() PlatformProbe { return windowsProbe{} }

type win32OperatingSystem struct {
	Name    string
	Version string
}

type win32Processor struct {
	Name        string
	ProcessorId string
}

type win32ComputerSystemProduct struct {
	UUID string
}

type win32ComputerSystem struct {
	TotalPhysicalMemory uint64
}

type msAcpiThermalZoneTemperature struct {
	CurrentTemperature uint32
}

func (windowsProbe) Fill(snap *MachineSnapshot) {
	fillOperatingSystem(snap)
	fillProcessor(snap)
	fillHardwareUUID(snap)
	fillMemory(snap)
	fillTemperature(snap)
	snap.MachineGUID = readMachineGuid()
}

// query wraps wmi.Query so a fault on one object class is logged and
// swallowed; the affected fields simply stay empty.
func query(class, q string, dst any) bool {
	if err := wmi.Query(q, dst); err != nil {
		log.Printf("wmi query %s failed: %v", class, err)
		return false
	}
	return true
}

func fillOperatingSystem(snap *MachineSnapshot) {
	var rows []win32OperatingSystem
	if !query("Win32_OperatingSystem", "SELECT Name, Version FROM Win32_OperatingSystem", &rows) || len(rows) == 0 {
		return
	}
	// Name reads "Microsoft Windows 11 Pro|C:\WINDOWS|..."; keep the
	// product part and drop the vendor prefix.
	name, _, _ := strings.Cut(rows[0].Name, "|")
	snap.OSName = strings.TrimPrefix(strings.TrimSpace(name), "Microsoft ")
	snap.OSVersion = strings.TrimSpace(rows[0].Version)
}

func fillProcessor(snap *MachineSnapshot) {
	var rows []win32Processor
	if !query("Win32_Processor", "SELECT Name, ProcessorId FROM Win32_Processor", &rows) {
		return
	}
	names := make([]string, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
		ids = append(ids, r.ProcessorId)
	}
	snap.ProcessorModel = joinSorted(names)
	snap.ProcessorSerial = joinSorted(ids)
}

func fillHardwareUUID(snap *MachineSnapshot) {
	var rows []win32ComputerSystemProduct
	if !query("Win32_ComputerSystemProduct", "SELECT UUID FROM Win32_ComputerSystemProduct", &rows) {
		return
	}
	uuids := make([]string, 0, len(rows))
	for _, r := range rows {
		uuids = append(uuids, r.UUID)
	}
	snap.HardwareUUID = joinSorted(uuids)
}

func fillMemory(snap *MachineSnapshot) {
	var rows []win32ComputerSystem
	if query("Win32_ComputerSystem", "SELECT TotalPhysicalMemory FROM Win32_ComputerSystem", &rows) && len(rows) > 0 {
		snap.TotalMemoryBytes = rows[0].TotalPhysicalMemory
	}

	// Available memory comes from the live performance facility rather
	// than WMI; it also backfills the total if the query came up empty.
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.AvailableMemoryBytes = vm.Available
		if snap.TotalMemoryBytes == 0 {
			snap.TotalMemoryBytes = vm.Total
		}
	}
}

func fillTemperature(snap *MachineSnapshot) {
	var rows []msAcpiThermalZoneTemperature
	q := "SELECT CurrentTemperature FROM MSAcpi_ThermalZoneTemperature"
	if err := wmi.QueryNamespace(q, &rows, `root\wmi`); err != nil {
		log.Printf("wmi query MSAcpi_ThermalZoneTemperature failed: %v", err)
		return
	}
	if len(rows) == 0 {
		return
	}
	snap.TemperatureCelsius = thermalZoneCelsius(int64(rows[0].CurrentTemperature))
}

// readMachineGuid reads the OS-issued machine identifier from the
// Cryptography key. A 32-bit process sees the WOW64 view by default, so an
// empty read is retried against the explicit 64-bit view.
func readMachineGuid() string {
	views := []uint32{
		registry.QUERY_VALUE,
		registry.QUERY_VALUE | registry.WOW64_64KEY,
	}
	for _, access := range views {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Cryptography`, access)
		if err != nil {
			continue
		}
		v, _, err := k.GetStringValue("MachineGuid")
		k.Close()
		if err == nil && v != "" {
			return v
		}
	}
	return ""
}
