package mission

// Default returns the registry of the missions instrumented in the mobile test app.
// The marker strings are what the mission screens log; changing them breaks matching.
func Default() *Registry {
	return MustRegistry(
		Descriptor{
			ID:             "upload1",
			Name:           "미션1 영상 업로드",
			ScreenPrefix:   "업로드1",
			StartMarker:    "업로드1_미션시작",
			CompleteMarker: "업로드1_미션완료",
		},
		Descriptor{
			ID:             "edit2-1",
			Name:           "미션2-1 컷 선택",
			ScreenPrefix:   "편집2-1",
			StartMarker:    "편집2-1_미션시작",
			CompleteMarker: "편집2-1_미션완료",
			AnswerScreen:   "편집2-1_컷선택",
		},
		Descriptor{
			ID:             "edit2-2",
			Name:           "미션2-2 AI 자막 추천",
			ScreenPrefix:   "편집2-2",
			StartMarker:    "편집2-2_미션시작",
			CompleteMarker: "편집2-2_미션완료",
			Additional: &Stage{
				Start:    "편집2-2_추가미션시작",
				Complete: "편집2-2_추가미션완료",
			},
		},
		Descriptor{
			ID:           "memo3",
			Name:         "미션3 아이디어 메모",
			ScreenPrefix: "메모3",
			VariantA: &Stage{
				Start:    "메모3A_미션시작",
				Complete: "메모3A_미션완료",
			},
			VariantB: &Stage{
				Start:    "메모3B_미션시작",
				Complete: "메모3B_미션완료",
			},
		},
	)
}
