package c64

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectorsPerTrackZones(t *testing.T) {
	require.Equal(t, 21, sectorsPerTrack(1))
	require.Equal(t, 21, sectorsPerTrack(17))
	require.Equal(t, 19, sectorsPerTrack(18))
	require.Equal(t, 19, sectorsPerTrack(24))
	require.Equal(t, 18, sectorsPerTrack(25))
	require.Equal(t, 18, sectorsPerTrack(30))
	require.Equal(t, 17, sectorsPerTrack(31))
	require.Equal(t, 17, sectorsPerTrack(35))
}

func TestDiskByteOffsetMatchesCumulativeGeometry(t *testing.T) {
	require.Equal(t, 0, diskByteOffset(1, 0))
	wantTrack18 := 17 * 21 * diskSectorSize
	require.Equal(t, wantTrack18, diskByteOffset(18, 0))
}

func buildTestD64(t *testing.T) string {
	t.Helper()
	var image [diskSize]byte

	dirBase := diskByteOffset(diskDirTrack, 1)
	// Directory sector terminator: next track/sector = 0,0xFF (unused).
	image[dirBase] = 0
	image[dirBase+1] = 0xFF

	entryBase := dirBase
	dataTrack, dataSector := 17, 0
	image[entryBase+0x02] = 2 // PRG
	image[entryBase+0x03] = byte(dataTrack)
	image[entryBase+0x04] = byte(dataSector)
	name := "TEST"
	for i := 0; i < 16; i++ {
		image[entryBase+0x05+i] = 0xA0
	}
	copy(image[entryBase+0x05:entryBase+0x05+16], name)
	image[entryBase+0x1E] = 1 // blocks = 1

	dataBase := diskByteOffset(dataTrack, dataSector)
	image[dataBase] = 0    // next track 0 = last sector
	image[dataBase+1] = 5  // 5 bytes used in final sector
	image[dataBase+2] = 'H'
	image[dataBase+3] = 'I'

	path := t.TempDir() + "/test.d64"
	require.NoError(t, os.WriteFile(path, image[:], 0o644))
	return path
}

func TestDiskLoadParsesDirectory(t *testing.T) {
	disk := NewD64Disk()
	require.NoError(t, disk.Load(buildTestD64(t)))

	entries := disk.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "TEST", entries[0].name)
	require.Equal(t, "PRG", fileTypeName(entries[0].fileType))
}

func TestDiskOpenDollarServesListing(t *testing.T) {
	disk := NewD64Disk()
	require.NoError(t, disk.Load(buildTestD64(t)))
	require.NoError(t, disk.Open(0, "$"))

	listing := disk.Listing()
	require.NotEmpty(t, listing)

	v, _ := disk.ReadByte()
	require.Equal(t, listing[0], v)
}

func TestDiskOpenByNameReadsFile(t *testing.T) {
	disk := NewD64Disk()
	require.NoError(t, disk.Load(buildTestD64(t)))
	require.NoError(t, disk.Open(2, "TEST"))

	var out []byte
	for i := 0; i < 10; i++ {
		v, last := disk.ReadByte()
		out = append(out, v)
		if last {
			break
		}
	}
	require.Contains(t, string(out), "HI")
}

func TestDiskWriteByteOpensOnNulTerminator(t *testing.T) {
	disk := NewD64Disk()
	require.NoError(t, disk.Load(buildTestD64(t)))

	for _, b := range []byte("TEST") {
		require.NoError(t, disk.WriteByte(0, b))
	}
	require.NoError(t, disk.WriteByte(0, 0))

	v, _ := disk.ReadByte()
	require.Equal(t, byte('H'), v)
}

func TestDiskWriteBufferOverflowPanics(t *testing.T) {
	disk := NewD64Disk()
	require.Panics(t, func() {
		for i := 0; i < diskWriteBufferSize+1; i++ {
			_ = disk.WriteByte(0xF2, 'X')
		}
	})
}
