package drv2605l

// Waveform library effect ids (ROM library A..F / LRA). Numbers and names
// follow the vendor effect catalog; percentages are nominal intensity.
const (
	EffectMin uint8 = 1
	EffectMax uint8 = 123
)

const (
	EffectStrongClick100 uint8 = 1
	EffectStrongClick60  uint8 = 2
	EffectStrongClick30  uint8 = 3
	EffectSharpClick100  uint8 = 4
	EffectSharpClick60   uint8 = 5
	EffectSharpClick30   uint8 = 6
	EffectSoftBump100    uint8 = 7
	EffectSoftBump60     uint8 = 8
	EffectSoftBump30     uint8 = 9
	EffectDoubleClick100 uint8 = 10
	EffectDoubleClick60  uint8 = 11
	EffectTripleClick100 uint8 = 12
	EffectSoftFuzz60     uint8 = 13
	EffectStrongBuzz100  uint8 = 14
	EffectAlert750ms     uint8 = 15
	EffectAlert1000ms    uint8 = 16

	EffectStrongClick1   uint8 = 17
	EffectStrongClick275 uint8 = 18
	EffectStrongClick360 uint8 = 19
	EffectStrongClick430 uint8 = 20
	EffectMediumClick1   uint8 = 21
	EffectMediumClick2   uint8 = 22
	EffectMediumClick3   uint8 = 23
	EffectSharpTick1     uint8 = 24
	EffectSharpTick2     uint8 = 25
	EffectSharpTick3     uint8 = 26

	EffectShortDoubleClickStrong1 uint8 = 27
	EffectShortDoubleClickStrong2 uint8 = 28
	EffectShortDoubleClickStrong3 uint8 = 29
	EffectShortDoubleClickStrong4 uint8 = 30
	EffectShortDoubleClickMedium1 uint8 = 31
	EffectShortDoubleClickMedium2 uint8 = 32
	EffectShortDoubleClickMedium3 uint8 = 33
	EffectShortDoubleSharpTick1   uint8 = 34
	EffectShortDoubleSharpTick2   uint8 = 35
	EffectShortDoubleSharpTick3   uint8 = 36

	EffectLongDoubleSharpClickStrong1 uint8 = 37
	EffectLongDoubleSharpClickStrong2 uint8 = 38
	EffectLongDoubleSharpClickStrong3 uint8 = 39
	EffectLongDoubleSharpClickStrong4 uint8 = 40
	EffectLongDoubleSharpClickMedium1 uint8 = 41
	EffectLongDoubleSharpClickMedium2 uint8 = 42
	EffectLongDoubleSharpClickMedium3 uint8 = 43
	EffectLongDoubleSharpTick1        uint8 = 44
	EffectLongDoubleSharpTick2        uint8 = 45
	EffectLongDoubleSharpTick3        uint8 = 46

	EffectBuzz1 uint8 = 47
	EffectBuzz2 uint8 = 48
	EffectBuzz3 uint8 = 49
	EffectBuzz4 uint8 = 50
	EffectBuzz5 uint8 = 51

	EffectPulsingStrong1 uint8 = 52
	EffectPulsingStrong2 uint8 = 53
	EffectPulsingMedium1 uint8 = 54
	EffectPulsingMedium2 uint8 = 55
	EffectPulsingMedium3 uint8 = 56
	EffectPulsingSharp1  uint8 = 57
	EffectPulsingSharp2  uint8 = 58

	EffectTransitionClick1 uint8 = 59
	EffectTransitionClick2 uint8 = 60
	EffectTransitionClick3 uint8 = 61
	EffectTransitionClick4 uint8 = 62
	EffectTransitionClick5 uint8 = 63
	EffectTransitionClick6 uint8 = 64
	EffectTransitionHum1   uint8 = 65
	EffectTransitionHum2   uint8 = 66
	EffectTransitionHum3   uint8 = 67
	EffectTransitionHum4   uint8 = 68
	EffectTransitionHum5   uint8 = 69
	EffectTransitionHum6   uint8 = 70

	EffectRampDownLongSmooth1   uint8 = 71
	EffectRampDownLongSmooth2   uint8 = 72
	EffectRampDownMediumSmooth1 uint8 = 73
	EffectRampDownMediumSmooth2 uint8 = 74
	EffectRampDownShortSmooth1  uint8 = 75
	EffectRampDownShortSmooth2  uint8 = 76
	EffectRampDownLongSharp1    uint8 = 77
	EffectRampDownLongSharp2    uint8 = 78
	EffectRampDownMediumSharp1  uint8 = 79
	EffectRampDownMediumSharp2  uint8 = 80
	EffectRampDownShortSharp1   uint8 = 81
	EffectRampDownShortSharp2   uint8 = 82

	EffectRampUpLongSmooth1   uint8 = 83
	EffectRampUpLongSmooth2   uint8 = 84
	EffectRampUpMediumSmooth1 uint8 = 85
	EffectRampUpMediumSmooth2 uint8 = 86
	EffectRampUpShortSmooth1  uint8 = 87
	EffectRampUpShortSmooth2  uint8 = 88
	EffectRampUpLongSharp1    uint8 = 89
	EffectRampUpLongSharp2    uint8 = 90
	EffectRampUpMediumSharp1  uint8 = 91
	EffectRampUpMediumSharp2  uint8 = 92
	EffectRampUpShortSharp1   uint8 = 93
	EffectRampUpShortSharp2   uint8 = 94

	EffectLongBuzzProgrammatic uint8 = 95
	EffectSmoothHum1           uint8 = 96
	EffectSmoothHum2           uint8 = 97
	EffectSmoothHum3           uint8 = 98
	EffectSmoothHum4           uint8 = 99
	EffectSmoothHum5           uint8 = 100

	EffectAlert1000ms2   uint8 = 101
	EffectAlert750ms2    uint8 = 102
	EffectAlert500ms     uint8 = 103
	EffectAlert250ms     uint8 = 104
	EffectPulsingStrong3 uint8 = 105
	EffectPulsingMedium4 uint8 = 106
	EffectPulsingMedium5 uint8 = 107
	EffectPulsingSharp3  uint8 = 108
	EffectPulsingSharp4  uint8 = 109
	EffectPulsingSharp5  uint8 = 110

	EffectLongBuzz1   uint8 = 111
	EffectLongBuzz2   uint8 = 112
	EffectLongBuzz3   uint8 = 113
	EffectLongBuzz4   uint8 = 114
	EffectSmoothHum6  uint8 = 115
	EffectSmoothHum7  uint8 = 116
	EffectSmoothHum8  uint8 = 117
	EffectSmoothHum9  uint8 = 118
	EffectSmoothHum10 uint8 = 119
	EffectSmoothHum11 uint8 = 120
	EffectSmoothHum12 uint8 = 121
	EffectSmoothHum13 uint8 = 122
	EffectSmoothHum14 uint8 = 123
)
