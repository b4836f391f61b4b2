package storage

import (
	"fmt"
	"path"

	"github.com/rs/zerolog/log"
)

// VoidStorage discards the values it is given.
// It backs the runs that do not keep their report.
type VoidStorage struct {
	shard string
}

// VoidShard is the default shard of a benchmark run, nothing stored through it is kept.
func VoidShard(table string) Shard {
	return func(shard string) (Persistence, error) {
		return &VoidStorage{shard: path.Join(table, shard)}, nil
	}
}

func (v *VoidStorage) Store(k Key, value interface{}) error {
	log.Debug().Str("shard", v.shard).Str("key", k.Path()).Msg("discarding value")
	return nil
}

func (v *VoidStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("nothing kept under '%s/%s': %w", v.shard, k.Path(), NotFoundErr)
}
