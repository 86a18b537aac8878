package torrent

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arkadia-labs/trackerd/core"
	"github.com/arkadia-labs/trackerd/utils/stringset"
)

// ErrInvalidPieceSize is returned by NewBuilder when pieceSize is not
// strictly positive.
var ErrInvalidPieceSize = errors.New("invalid piece size")

// BuilderOption supplies a pre-computed attribute to a Builder, short
// circuiting its lazy derivation from the underlying file.
type BuilderOption func(*Builder)

// WithName overrides the torrent name, which otherwise defaults to the
// slicer's basename.
func WithName(name string) BuilderOption {
	return func(b *Builder) { b.name = name }
}

// WithLength pre-supplies the file length, overriding the slicer's size.
func WithLength(length int64) BuilderOption {
	return func(b *Builder) { b.length = &length }
}

// WithPieces pre-supplies the piece hashes, skipping a full file read.
func WithPieces(pieces Pieces) BuilderOption {
	return func(b *Builder) { b.pieces = pieces }
}

// WithInfoHash pre-supplies the info-hash, skipping its derivation.
func WithInfoHash(h core.InfoHash) BuilderOption {
	return func(b *Builder) { b.infoHash = &h }
}

// WithAnnounceList sets the Builder's internal announce list, merged with
// any caller-supplied list at Build time.
func WithAnnounceList(al AnnounceList) BuilderOption {
	return func(b *Builder) { b.announceList = al }
}

// WithURLList sets the webseed URLs advertised in the .torrent blob.
func WithURLList(urls []string) BuilderOption {
	return func(b *Builder) { b.urlList = urls }
}

// WithPrivate marks the torrent private, suppressing DHT/PEX in compliant
// clients.
func WithPrivate(private bool) BuilderOption {
	return func(b *Builder) { b.private = private }
}

// WithNodes sets the DHT bootstrap nodes advertised in the .torrent blob.
func WithNodes(nodes [][2]string) BuilderOption {
	return func(b *Builder) { b.nodes = nodes }
}

// WithCreatedBy sets the "created by" field of the .torrent blob.
func WithCreatedBy(createdBy string) BuilderOption {
	return func(b *Builder) { b.createdBy = createdBy }
}

// Builder assembles torrent metadata -- pieces, info-hash, and the full
// .torrent blob -- from a file on disk. Attributes not supplied via
// BuilderOption are derived from the slicer on first read and memoized.
type Builder struct {
	slicer    *FileSlicer
	pieceSize int64

	mu           sync.Mutex
	name         string
	length       *int64
	pieces       Pieces
	infoHash     *core.InfoHash
	announceList AnnounceList
	urlList      []string
	private      bool
	nodes        [][2]string
	createdBy    string
}

// NewBuilder creates a Builder reading from slicer, cutting pieces of
// pieceSize bytes.
func NewBuilder(slicer *FileSlicer, pieceSize int64, opts ...BuilderOption) (*Builder, error) {
	if pieceSize <= 0 {
		return nil, ErrInvalidPieceSize
	}
	b := &Builder{
		slicer:    slicer,
		pieceSize: pieceSize,
		name:      slicer.Basename(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns the torrent name.
func (b *Builder) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// Path returns the on-disk path backing this torrent.
func (b *Builder) Path() string {
	return b.slicer.Path()
}

// Length returns the file length in bytes: the pre-supplied value if any,
// else the size the slicer recorded when it was created.
func (b *Builder) Length() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lengthLocked()
}

func (b *Builder) lengthLocked() int64 {
	if b.length == nil {
		l := b.slicer.Size()
		b.length = &l
	}
	return *b.length
}

// Pieces returns the concatenated SHA-1 piece hashes, reading and hashing
// the full file on first call.
func (b *Builder) Pieces() (Pieces, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.piecesLocked()
}

func (b *Builder) piecesLocked() (Pieces, error) {
	if b.pieces == nil {
		pieces, err := b.slicer.HashPieces(b.pieceSize)
		if err != nil {
			return nil, fmt.Errorf("hash pieces: %s", err)
		}
		b.pieces = pieces
	}
	return b.pieces, nil
}

// Info returns the info dictionary shared by the info-hash and the
// .torrent blob.
func (b *Builder) Info() (Info, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pieces, err := b.piecesLocked()
	if err != nil {
		return Info{}, err
	}
	return Info{
		PieceLength: b.pieceSize,
		Pieces:      pieces,
		Name:        b.name,
		Length:      b.lengthLocked(),
		Private:     b.private,
	}, nil
}

// InfoHash returns the torrent's info-hash, deriving it from Info on first
// call.
func (b *Builder) InfoHash() (core.InfoHash, error) {
	b.mu.Lock()
	cached := b.infoHash
	b.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	info, err := b.Info()
	if err != nil {
		return core.InfoHash{}, err
	}
	h, err := info.ComputeInfoHash()
	if err != nil {
		return core.InfoHash{}, err
	}

	b.mu.Lock()
	b.infoHash = &h
	b.mu.Unlock()
	return h, nil
}

// Build assembles the full .torrent metadata, merging trackers into the
// Builder's internal announce list: internal tiers first, duplicate URLs
// removed, order preserved.
func (b *Builder) Build(trackers AnnounceList) (*MetaInfo, error) {
	info, err := b.Info()
	if err != nil {
		return nil, err
	}
	infoHash, err := b.InfoHash()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	internal := b.announceList
	urlList := b.urlList
	nodes := b.nodes
	createdBy := b.createdBy
	b.mu.Unlock()

	merged := mergeAnnounceList(internal, trackers)
	if len(merged) == 0 || len(merged[0]) == 0 {
		return nil, errors.New("no announce URL configured")
	}

	return &MetaInfo{
		Info:         info,
		InfoHash:     infoHash,
		Announce:     merged[0][0],
		AnnounceList: merged,
		URLList:      urlList,
		Nodes:        nodes,
		CreatedBy:    createdBy,
		CreationDate: time.Now().Unix(),
	}, nil
}

// ReadBlock returns the bytes for a block within a single piece, translating
// the (piece, offset) coordinate pair into an absolute file offset.
func (b *Builder) ReadBlock(pieceIndex int, blockBegin, length int64) ([]byte, error) {
	if blockBegin+length > b.pieceSize {
		return nil, fmt.Errorf("block begin %d + length %d exceeds piece size %d",
			blockBegin, length, b.pieceSize)
	}
	total := b.Length()
	maxPieceIndex := int((total+b.pieceSize-1)/b.pieceSize) - 1
	if pieceIndex < 0 || pieceIndex > maxPieceIndex {
		return nil, fmt.Errorf("piece index %d out of range [0, %d]", pieceIndex, maxPieceIndex)
	}
	offset := int64(pieceIndex)*b.pieceSize + blockBegin
	return b.slicer.ReadBlock(offset, length)
}

// NewFlatAnnounceList wraps each of urls as its own single-element tier,
// for callers that don't use BEP 12 tiering.
func NewFlatAnnounceList(urls ...string) AnnounceList {
	al := make(AnnounceList, len(urls))
	for i, u := range urls {
		al[i] = []string{u}
	}
	return al
}

// mergeAnnounceList combines internal and caller tiers, internal first,
// dropping URLs already seen in an earlier tier.
func mergeAnnounceList(internal, caller AnnounceList) AnnounceList {
	seen := stringset.New()
	var merged AnnounceList
	appendTier := func(tier []string) {
		var filtered []string
		for _, url := range tier {
			if seen.Has(url) {
				continue
			}
			seen.Add(url)
			filtered = append(filtered, url)
		}
		if len(filtered) > 0 {
			merged = append(merged, filtered)
		}
	}
	for _, tier := range internal {
		appendTier(tier)
	}
	for _, tier := range caller {
		appendTier(tier)
	}
	return merged
}
