package ivf

import (
	"github.com/pkg/errors"
	"github.com/ugparu/vp9parser"
)

func invalidContainer(format string, args ...any) error {
	return errors.Wrapf(vp9parser.ErrInvalidContainer, "ivf: "+format, args...)
}

func truncatedContainer(format string, args ...any) error {
	return errors.Wrapf(vp9parser.ErrTruncatedContainer, "ivf: "+format, args...)
}
