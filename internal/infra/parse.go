package infra

import "strings"

// windowsInterfaceRow is one row of `netsh interface show interface`:
//
//	Admin State    State          Type             Interface Name
//	-------------------------------------------------------------------------
//	Enabled        Connected      Dedicated        Ethernet 2
type windowsInterfaceRow struct {
	AdminState string
	State      string
	Type       string
	Name       string
}

// parseWindowsInterfaceTable skips the header, separator and blank lines.
// Fields from the fourth on form the name, so names with spaces survive
// (runs of spaces inside a name collapse to one).
func parseWindowsInterfaceTable(out string) []windowsInterfaceRow {
	var rows []windowsInterfaceRow
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Admin State") || strings.HasPrefix(line, "---") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		rows = append(rows, windowsInterfaceRow{
			AdminState: fields[0],
			State:      fields[1],
			Type:       fields[2],
			Name:       strings.Join(fields[3:], " "),
		})
	}
	return rows
}

// parseLinuxLinkList extracts names from `ip -o link show`:
//
//	2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 ...
//	5: veth1@if4: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 ...
//
// The "@parent" suffix is dropped.
func parseLinuxLinkList(out string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasSuffix(fields[0], ":") {
			continue
		}
		name := strings.TrimSuffix(fields[1], ":")
		if i := strings.Index(name, "@"); i > 0 {
			name = name[:i]
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func rowNames(rows []windowsInterfaceRow) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names
}
