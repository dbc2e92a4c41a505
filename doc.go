// Package bp2h5 converts a decoded BP record stream into an HDF5 file.
//
// A run is configured once through a Store and executed by a Converter:
//
//	store := bp2h5.NewStore()
//	if err := store.Initialize(bp2h5.DefaultConfig()); err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Release()
//
//	c, err := bp2h5.New(store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Convert("restart.bpion", "restart.h5"); err != nil {
//	    log.Fatal(err)
//	}
//
// Records are applied strictly in stream order:
//   - group records create the group and any missing parents;
//   - scalar and array records create a dataset, or add a step to a
//     dataset written with Append;
//   - attribute records attach a value to a dataset written earlier or to
//     a group.
//
// The first error aborts the run and is returned as a *ConversionError
// naming the record. Every error matches one of the Err* sentinels with
// errors.Is.
package bp2h5
