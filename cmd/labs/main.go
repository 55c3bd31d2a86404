// Command labs searches for low-autocorrelation binary sequences with the
// memetic tabu search and inspects the supporting quantities (energies,
// interaction sets, angle schedules, archived bests).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
