package audiopack

// builtin lists the packs whose previews ship with the storefront.
var builtin = []Pack{
	NewPack(
		"kits",
		"Kits",
		"intro-kit",
		"Drum kits and sample collections",
		"/audio/Kits",
		"eDNSV8PJGMdPtWFitxPrkQ==",
		"PO_14_Bleep.mp3",
		"770_Dist_Clap_1.mp3",
		"770_Dist_SD_1.mp3",
		"770_Dist_SD_2.mp3",
		"PO_14_BD_1.mp3",
		"PO_14_Sub_2.mp3",
		"PO_14_Bass_A.mp3",
		"PO_14_TOM_2.mp3",
	),
	NewPack(
		"gaussian-tremors",
		"Gaussian Tremors",
		"gaussian-tremors",
		"Ambient and atmospheric sound demos",
		"/audio/Gaussian_Tremors",
		"sm089yf8HB22wTUdYe6buw==",
		"Gaussian_Tremors_Demo_1.mp3",
		"Gaussian_Tremors_Demo_2.mp3",
		"Gaussian_Tremors_Demo_3.mp3",
		"Gaussian_Tremors_Demo_4.mp3",
		"Gaussian_Tremors_Demo_5.mp3",
		"Gaussian_Tremors_Demo_6.mp3",
		"Gaussian_Tremors_Demo_7.mp3",
		"Gaussian_Tremors_Demo_8.mp3",
	),
	NewPack(
		"foundsound-sound-perc",
		"Found Sound Percussion",
		"found-sound-percussion",
		"Unique percussion sounds from found objects",
		"/audio/Foundsound_Sound_Perc",
		"wCpv2T2-YkEVN5S4-VKiBA==",
		"AKt_Verb_Door_5.mp3",
		"Found_Sound_Perc_10.mp3",
		"Marímbula_6.mp3",
		"pipe_C.mp3",
		"Samarkand_Claps_2.mp3",
		"Samarkand_Whistle_3.mp3",
		"Tambor_1.mp3",
		"WM_Perc_tonal_3.mp3",
	),
	NewPack(
		"genarch-cycle-demos",
		"Genarch Cycle Demos",
		"genarch-cycle",
		"Generative architecture cycle demonstrations",
		"/audio/Genarch_Cycle_Demos",
		"YBZbq9G9akXVe9P9g5NLfA==",
		" GA_Cycle_Chord_7.mp3",
		" GA_Cycle_MISC_32.mp3",
		" GA_Cycle_MISC_37.mp3",
		" GA_Cycle_MISC_4.mp3",
		" GA_Cycle_MISC_5.mp3",
		"GA_Cycle_Kick_50.mp3",
		"GA_Cycle_SD_26.mp3",
		"GA_Cycle_SD_49.mp3",
	),
	NewPack(
		"interference-pack-demos",
		"Interference Pack Demos",
		"interference-pack",
		"Interference and distortion effects demonstrations",
		"/audio/InterferencePack_Demos",
		"8lD0nEOwzH9G3mP1GLODrQ==",
		"Interference_Vol1 Bent Bass 1.mp3",
		"Interference_Vol1 Detuned Am Chord.mp3",
		"Interference_Vol1 Hybrid Snare.mp3",
		"Interference_Vol1 Hybrid Stick.mp3",
		"Interference_Vol1 MKF kick 3.mp3",
		"Interference_Vol1 MKF kick 5.mp3",
		"Interference_Vol1 MKF kick 7.mp3",
		"Interference_Vol1 RVRB Stick.mp3",
	),
	NewPack(
		"temporal-fauna-demos",
		"Temporal Fauna Demos",
		"temporal-fauna",
		"Temporal and organic sound explorations",
		"/audio/Temporal_Fauna_DEMOS",
		"h3iis8gqsb5Pmj8P_vxcfw==",
		"KD_Subs_3.mp3",
		"KD_Subs_6.mp3",
		"Lo-Perc_8.mp3",
		"Neblina_8.mp3",
		"Rbr_DistBass_1.mp3",
		"Sub_MiKro_1.mp3",
		"Symmetry_4.mp3",
		"Tempora_Fauna_Demo.mp3",
		"Tempora_Fauna_DemoV2.mp3",
		"Temporal_Fauna_Demo.mp3",
		"Temporal_Resolution_1.mp3",
	),
	NewPack(
		"vapor-drums-green-demos",
		"Vapor Drums Green Demos",
		"vapor-drums-green",
		"Vapor wave and atmospheric drum sounds - Green variant",
		"/audio/Vapor_Drums_Green_Demos",
		"AJNqZ3oMXl9G6xAkNg9wNA==",
		"BDVIN_FM_Vapor_Drums_TEHN_V.mp3",
		"CLAPEDGE_FM_Vapor_Drums_TEHN_V.mp3",
		"CONGXY_FM_Vapor_Drums_TEHN_V.mp3",
		"HHO5_FM_Vapor_Drums_TEHN_V.mp3",
		"ISAO_FM_Vapor_Drums_TEHN_V.mp3",
		"METALVIN_FM_Vapor_Drums_TEHN_V.mp3",
		"PRCTONE2_FM_Vapor_Drums_TEHN_V.mp3",
		"TRIACON_FM_Vapor_Drums_TEHN_V.mp3",
	),
	NewPack(
		"vapor-drums-red-demos",
		"Vapor Drums Red Demos",
		"vapor-drums-red",
		"Vapor wave and atmospheric drum sounds - Red variant",
		"/audio/Vapor_Drums_Red_Demos",
		"tG6ebGD796t30HLKfa5i2Q==",
		"BDVIN_FM_Vapor_Drums_TEHN_V.mp3",
		"CLAPEDGE_FM_Vapor_Drums_TEHN_V.mp3",
		"CONGXY_FM_Vapor_Drums_TEHN_V.mp3",
		"HHO5_FM_Vapor_Drums_TEHN_V.mp3",
		"ISAO_FM_Vapor_Drums_TEHN_V.mp3",
		"METALVIN_FM_Vapor_Drums_TEHN_V.mp3",
		"PRCTONE2_FM_Vapor_Drums_TEHN_V.mp3",
		"TRIACON_FM_Vapor_Drums_TEHN_V.mp3",
	),
	NewPack(
		"replikas-modular-drums-and-sound-scapes",
		"Replikas Modular Drums and Sound Scapes",
		"replikas-modular-drums-and-sound-scapes",
		"Modular drum samples and synthetic percussion sounds from Replikas",
		"/audio/Replikas_Modular_Drums_Demo",
		"6ohI7gZEqraWbi4kdhOeVQ==",
		"Replikas_Pads_and Synths.mp3",
		"Replikas_Synth_Bass.mp3",
		"Replikas_Subs.mp3",
		"Replikas_Snares.mp3",
		"Replikas_Demo_1.mp3",
		"Replikas_Misc_Percussion.mp3",
		"Replikas_MCO_Kicks.mp3",
		"Replikas_Doepfr_Kicks.mp3",
		"RPLKS_Sttgtr_CMAJ_Inv_Tehn_Vega.mp3",
		"Replikas_Inverted_1_Tehn_Vega.mp3",
		"RPLKS_Raves_Gb2_Tehn_Vega.mp3",
		"RPLKS_CLM_Down_CMaj9_Tehn_Vega.mp3",
		"RPLKS_DistL_C2_Tehn_Vega.mp3",
		"MDDEMO_3_Remastered.mp3",
		"RPLKS_BceX_Cmaj9_Tehn_Vega.mp3",
		"RPLKS_Bass_Bait_C2_Tehn_Vega.mp3",
	),
}

// staticProducts maps product slugs without a preview pack to product ids.
var staticProducts = map[string]string{
	"sonic-entropy":      "99xqpkLEY4yTbHgcsVjwcA==",
	"fm-percussion":      "zxUyXIn1veXajo6K81SdWA==",
	"tsk-0a0a-intro-kit": "jYlJV3xNBShdlCPYFYh4Jg==",
}
