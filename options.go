package bp2h5

import (
	"log"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/bp/ionstream"
	"github.com/mammefen/bp2h5/target"
	"github.com/mammefen/bp2h5/target/h5target"
)

// SourceOpener opens the decoded record stream at path. buf is the
// store's read buffer and may be used for buffered reads.
type SourceOpener func(path string, buf []byte) (bp.Decoder, error)

// SinkFactory creates the output at path, truncating any existing file.
type SinkFactory func(path string) (target.Sink, error)

// Option configures a Converter.
//
// Example:
//
//	c, err := bp2h5.New(store,
//	    bp2h5.WithLogger(log.New(os.Stderr, "bp2h5: ", 0)),
//	    bp2h5.WithSinkFactory(func(path string) (target.Sink, error) {
//	        return h5target.Create(path, h5target.WithGZIP(6))
//	    }),
//	)
type Option func(*Converter)

// WithLogger sets the logger used in Debug verbosity. Quiet runs never
// log.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSourceOpener replaces the default Ion record stream reader.
func WithSourceOpener(open SourceOpener) Option {
	return func(c *Converter) {
		if open != nil {
			c.open = open
		}
	}
}

// WithSinkFactory replaces the default HDF5 file sink.
func WithSinkFactory(create SinkFactory) Option {
	return func(c *Converter) {
		if create != nil {
			c.create = create
		}
	}
}

func openIonStream(path string, buf []byte) (bp.Decoder, error) {
	return ionstream.Open(path, buf)
}

func createHDF5(path string) (target.Sink, error) {
	return h5target.Create(path)
}
