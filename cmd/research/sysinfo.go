package main

import (
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// detectCPUModel names the host CPU for the sweep report.
func detectCPUModel() string {
	if runtime.GOOS == "darwin" {
		out, err := exec.Command("sysctl", "-n", "machdep.cpu.brand_string").Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	if runtime.GOOS == "linux" {
		f, err := os.Open("/proc/cpuinfo")
		if err == nil {
			defer f.Close()
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				name, value, ok := strings.Cut(sc.Text(), ":")
				if ok && strings.HasPrefix(name, "model name") {
					return strings.TrimSpace(value)
				}
			}
		}
	}
	return runtime.GOARCH + " CPU"
}
