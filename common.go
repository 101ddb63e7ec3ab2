package fwdeforge

// Magic is the FWDE signature ("Frost Wing Deployed Executable").
var Magic = [4]byte{'F', 'W', 'D', 'E'}

const MagicString = "FWDE"

// FormatMarker is written at offset 5 of every header. Its meaning is not
// defined by any consumer; treat it as an opaque tag byte.
const FormatMarker byte = 0x69

const HeaderSize = 7

// ProbeSize is the number of leading payload bytes the endianness prober reads.
const ProbeSize = 4

// ArchiveExt replaces the artifact extension when no archive path is given.
const ArchiveExt = ".raw"
