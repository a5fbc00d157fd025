// Package printer renders heap statistics and heap dumps as text or JSON.
//
// Text output groups digits according to Options.Lang:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintStats(al.Stats())
//	// Heap Statistics
//	//   Range:          0x0 - 0xC800
//	//   Capacity:       51,200 bytes
//	//   ...
//
// Dump adds the free list (with the next-fit cursor marked), the used list
// and the physical block layout.
package printer
