// Package script drives an allocator from a small line-oriented language,
// which makes heap scenarios reproducible from a file.
//
//	# two blocks, free the first, check the heap
//	alloc a 100
//	alloc b 4k
//	free a
//	check
//	dump
//
// Names bind allocations so later lines can free them. An alloc that finds
// no space is counted in Result.NoSpace unless Options.StrictSpace is set.
//
//	s, err := script.Parse(f)
//	res, err := script.NewRunner(al, printer.New(os.Stdout, printer.DefaultOptions()), nil).Run(ctx, s)
package script
