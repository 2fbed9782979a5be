package match

// Fallback returns a precomputed recommendation for callers that prefer
// showing something over surfacing a pipeline failure. Each call returns a
// fresh copy, so callers may mutate the result.
func Fallback() *Recommendation {
	return &Recommendation{
		MidpointAnalysis: "检测到两人分别位于静安区（南京西路）和徐汇区（漕溪路），中心点靠近淮海中路一带。当前为周六下午，推荐该区域适合 Coffee Chat 的场所。",
		Candidates: []Candidate{
			{
				VenueName:            "Seesaw Coffee (Réel Mall)",
				Address:              "南京西路 1601 号",
				Location:             Location{Lat: 31.2230, Lng: 121.4650},
				Type:                 TypeOrganic,
				RecommendationReason: "位于你们两人的地理中心，环境开阔适合 Coffee Chat，设计感空间很适合创意碰撞。",
				EstimatedCost:        45,
				BestFor:              []string{"Work", "Chat"},
				SuggestedItem:        "燕麦拿铁",
				ImgURL:               "https://images.unsplash.com/photo-1501339847302-ac426a4a7cbb?w=600&q=80",
			},
			{
				VenueName:            "M Stand (新天地)",
				Address:              "马当路 245 号",
				Location:             Location{Lat: 31.2180, Lng: 121.4730},
				Type:                 TypeOrganic,
				RecommendationReason: "新天地商圈核心位置，距离双方均 15 分钟内到达，暗黑工业风适合轻松聊天。",
				EstimatedCost:        52,
				BestFor:              []string{"Date", "Chat"},
				SuggestedItem:        "椰子拿铁 + 可颂",
				ImgURL:               "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=600&q=80",
			},
			{
				VenueName:            "% Arabica (武康路)",
				Address:              "武康路 378 号",
				Location:             Location{Lat: 31.2100, Lng: 121.4380},
				Type:                 TypeOrganic,
				RecommendationReason: "武康路经典地标，拍照打卡圣地。适合边走边聊的 Coffee Chat 场景。",
				EstimatedCost:        38,
				BestFor:              []string{"Walk", "Photo"},
				SuggestedItem:        "西班牙拿铁",
				ImgURL:               "https://images.unsplash.com/photo-1559496417-e7f25cb247f3?w=600&q=80",
			},
		},
	}
}
