package apt

// RawChunk stores a non-core RIFF/WAV chunk for round-trip preservation.
type RawChunk struct {
	ID [4]byte
	// Size mirrors len(Data) for preserved chunks.
	Size uint32
	Data []byte
	// Order is the original chunk order index encountered during decode.
	Order int
	// BeforeData indicates if this chunk appeared before the data chunk.
	BeforeData bool
}

func (c RawChunk) Clone() RawChunk {
	out := c
	out.Data = append([]byte(nil), c.Data...)

	return out
}

// Metadata collects the optional, non-audio data a WAV container may
// carry alongside its samples: LIST/INFO tags, broadcast-wave (bext) and
// cart-chunk production metadata, and sampler loop points.
type Metadata struct {
	// LIST/INFO fields.
	Artist       string
	Comments     string
	Copyright    string
	CreationDate string
	Engineer     string
	Genre        string
	Keywords     string
	Location     string
	Medium       string
	Product      string
	Software     string
	Source       string
	Subject      string
	Technician   string
	Title        string
	TrackNbr     string

	BroadcastExtension *BroadcastExtension
	Cart               *Cart
	SamplerInfo        *SamplerInfo
	CuePoints          []CuePoint
}

// CuePoint is one marker from a cue chunk, naming a sample offset of
// interest (e.g. the start of a satellite pass) within the data chunk.
type CuePoint struct {
	ID           uint32
	Position     uint32
	ChunkID      [4]byte
	ChunkStart   uint32
	BlockStart   uint32
	SampleOffset uint32
}

// BroadcastExtension is the EBU bext chunk (station/originator
// provenance and an absolute time reference), as decoded by
// DecodeBroadcastChunk.
type BroadcastExtension struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	TimeReference       uint64
	Version             uint16
	UMID                [64]byte
	Reserved            []byte
	CodingHistory       string
}

// Cart is the AES31/cart chunk used by broadcast automation systems to
// carry cut identification and timed post markers, as decoded by
// DecodeCartChunk.
type Cart struct {
	Version            string
	Title              string
	Artist             string
	CutID              string
	ClientID           string
	Category           string
	Classification     string
	OutCue             string
	StartDate          string
	StartTime          string
	EndDate            string
	EndTime            string
	ProducerAppID      string
	ProducerAppVersion string
	UserDef            string
	LevelReference     int32
	PostTimer          [8]uint32
	Reserved           []byte
	URL                string
	TagText            string
}

// SamplerInfo is the smpl chunk, describing a MIDI sampler's pitch
// mapping and loop points, as decoded by DecodeSamplerChunk.
type SamplerInfo struct {
	Manufacturer      [4]byte
	Product           [4]byte
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	Loops             []*SampleLoop
}

// SampleLoop is one loop point entry within a SamplerInfo.
type SampleLoop struct {
	CuePointID [4]byte
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

func cloneRawChunks(chunks []RawChunk) []RawChunk {
	if len(chunks) == 0 {
		return nil
	}

	out := make([]RawChunk, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Clone()
	}

	return out
}
