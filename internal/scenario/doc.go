// Package scenario は負荷シナリオの定義と実行機能を提供する。
//
// シナリオエンジンはRunner、Collector、対象クライアントを
// 連携させて一回の負荷試験を実行する。
//
// # 機能
//
// - シナリオ定義と実行
// - 定義済みプリセットシナリオ
// - 実行結果のレポート生成
//
// # プリセットシナリオ
//
// - quick: 短時間の動作確認
// - steady: 一定の読み書き混合負荷
// - soak: 長時間の耐久テスト
// - spike: 急激な負荷上昇テスト
// - read-heavy: 読み取り中心（4:1）のトラフィック
//
// # 使用例
//
//	config := scenario.SteadyScenario()
//	engine := scenario.New(config)
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report())
package scenario
