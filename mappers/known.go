package mappers

func init() {
	for id, name := range map[uint8]string{
		0:  "NROM",
		1:  "MMC1",
		2:  "UxROM",
		3:  "CNROM",
		4:  "MMC3",
		5:  "MMC5",
		7:  "AxROM",
		9:  "MMC2",
		10: "MMC4",
		11: "Color Dreams",
		34: "BNROM",
		66: "GxROM",
		69: "FME-7",
		71: "Camerica",
	} {
		RegisterMapper(id, newBaseMapper(id, name))
	}
}
