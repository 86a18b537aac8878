package torrent

import (
	"fmt"
	"io"
	"time"

	"github.com/arkadia-labs/trackerd/bencode"
	"github.com/arkadia-labs/trackerd/core"
)

// AnnounceList is a list of tracker announcers
// index is the tier of the list, smaller index means this list of announcers is more preferred.
type AnnounceList [][]string

// MetaInfo is the top-level .torrent dictionary.
type MetaInfo struct {
	Info         Info         `bencode:"info"`
	Announce     string       `bencode:"announce"`
	AnnounceList AnnounceList `bencode:"announce-list,omitempty"`
	CreationDate int64        `bencode:"creation date,omitempty"`
	Comment      string       `bencode:"comment,omitempty"`
	CreatedBy    string       `bencode:"created by,omitempty"`
	URLList      []string     `bencode:"url-list,omitempty"`
	Nodes        [][2]string  `bencode:"nodes,omitempty"`

	// InfoHash is computed from Info and cached here to avoid rehashing.
	// It is not part of the serialized dictionary.
	InfoHash core.InfoHash `bencode:"-"`
}

// NewMetaInfoFromInfo create MetaInfo from Info
func NewMetaInfoFromInfo(info Info, announce string) (*MetaInfo, error) {
	mi := &MetaInfo{
		Info:     info,
		Announce: announce,
	}
	err := mi.initialize()
	if err != nil {
		return nil, err
	}
	return mi, err
}

// NewMetaInfoFromBlob creates MetaInfo from a blob reader.
func NewMetaInfoFromBlob(
	name string,
	blob io.Reader,
	pieceLength int64,
	announce string,
	comment string,
	createdBy string) (*MetaInfo, error) {

	info, err := NewInfoFromBlob(name, blob, pieceLength)
	if err != nil {
		return nil, fmt.Errorf("create info: %s", err)
	}
	mi := &MetaInfo{
		Info:         info,
		Announce:     announce,
		CreationDate: time.Now().Unix(),
		Comment:      comment,
		CreatedBy:    createdBy,
	}
	if err := mi.initialize(); err != nil {
		return nil, err
	}
	return mi, nil
}

// DeserializeMetaInfo deserializes a bencoded .torrent blob.
func DeserializeMetaInfo(data []byte) (*MetaInfo, error) {
	var mi MetaInfo
	if err := bencode.Unmarshal(data, &mi); err != nil {
		return nil, err
	}
	if err := mi.initialize(); err != nil {
		return nil, err
	}
	return &mi, nil
}

// Name returns torrent name
func (mi *MetaInfo) Name() string {
	return mi.Info.Name
}

// Serialize returns metainfo as bencoded bytes, suitable for writing out
// as a .torrent file.
func (mi *MetaInfo) Serialize() ([]byte, error) {
	return bencode.Marshal(*mi)
}

// initialize computes info hash and set default fields
func (mi *MetaInfo) initialize() error {
	return mi.setInfoHash()
}

// setInfoHash computes hash of mi.Info and sets mi.InfoHash
func (mi *MetaInfo) setInfoHash() error {
	hash, err := mi.Info.ComputeInfoHash()
	if err != nil {
		return err
	}
	mi.InfoHash = hash
	return nil
}
