// Command cpuburn spins a tight busy loop forever, for driving the CPU-time
// breach scenario in the watchdog's end-to-end test suite.
package main

func main() {
	var x uint64
	for {
		x++
	}
}
